package meeting

import (
	"context"
	"testing"

	"github.com/example/conference-hub/internal/storage"
)

func TestVerifyOpenRoom(t *testing.T) {
	ctx := context.Background()
	registry := NewCredentialRegistry(storage.NewMemoryStore(), nil)

	cases := []string{"", "anything", "secret"}
	for _, supplied := range cases {
		if !registry.Verify(ctx, "open-room", supplied) {
			t.Errorf("open room should verify for supplied=%q", supplied)
		}
	}
}

func TestVerifyRegisteredPassword(t *testing.T) {
	ctx := context.Background()
	registry := NewCredentialRegistry(storage.NewMemoryStore(), nil)

	if err := registry.SetPassword(ctx, "locked", "s3cret"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	cases := []struct {
		supplied string
		want     bool
	}{
		{supplied: "s3cret", want: true},
		{supplied: "S3CRET", want: false},
		{supplied: "s3cret ", want: false},
		{supplied: "", want: false},
	}
	for _, tc := range cases {
		if got := registry.Verify(ctx, "locked", tc.supplied); got != tc.want {
			t.Errorf("Verify(locked, %q) = %v, want %v", tc.supplied, got, tc.want)
		}
	}
}

func TestSetPasswordEmptyIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	registry := NewCredentialRegistry(store, nil)

	if err := registry.SetPassword(ctx, "room", ""); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	if _, ok := registry.Password(ctx, "room"); ok {
		t.Error("empty password must not be registered")
	}
	if _, ok, _ := store.Get(ctx, passwordsKey); ok {
		t.Error("no-op set must not write to storage")
	}
}

func TestSetPasswordLastWriteWins(t *testing.T) {
	ctx := context.Background()
	registry := NewCredentialRegistry(storage.NewMemoryStore(), nil)

	if err := registry.SetPassword(ctx, "room", "first"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	if err := registry.SetPassword(ctx, "room", "second"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	password, ok := registry.Password(ctx, "room")
	if !ok || password != "second" {
		t.Errorf("expected last write to win, got %q ok=%v", password, ok)
	}
}

func TestCredentialsSurviveCorruptStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.Set(ctx, passwordsKey, "{broken"); err != nil {
		t.Fatal(err)
	}

	registry := NewCredentialRegistry(store, nil)

	if !registry.Verify(ctx, "room", "whatever") {
		t.Error("corrupt password map must read as no passwords registered")
	}
	if err := registry.SetPassword(ctx, "room", "fresh"); err != nil {
		t.Fatalf("SetPassword over corrupt data returned error: %v", err)
	}
	if password, ok := registry.Password(ctx, "room"); !ok || password != "fresh" {
		t.Errorf("expected fresh password after overwrite, got %q ok=%v", password, ok)
	}
}
