package storage

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Get(ctx, "absent"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "greeting", `"hello"`); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	value, ok, err := store.Get(ctx, "greeting")
	if err != nil || !ok {
		t.Fatalf("expected stored key, got ok=%v err=%v", ok, err)
	}
	if value != `"hello"` {
		t.Errorf("unexpected value: %s", value)
	}

	if err := store.Set(ctx, "greeting", `"replaced"`); err != nil {
		t.Fatalf("overwrite returned error: %v", err)
	}
	value, _, _ = store.Get(ctx, "greeting")
	if value != `"replaced"` {
		t.Errorf("last write should win, got %s", value)
	}

	if err := store.Delete(ctx, "greeting"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "greeting"); ok {
		t.Error("key should be gone after delete")
	}
	if err := store.Delete(ctx, "greeting"); err != nil {
		t.Errorf("deleting an absent key should not error: %v", err)
	}
}

func TestReadJSONDecodesStoredValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := WriteJSON(ctx, store, "rec", record{Name: "alpha", Count: 3}); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}

	var decoded record
	if !ReadJSON(ctx, store, "rec", &decoded) {
		t.Fatal("ReadJSON should report success for a stored record")
	}
	if decoded.Name != "alpha" || decoded.Count != 3 {
		t.Errorf("unexpected decoded record: %+v", decoded)
	}
}

func TestReadJSONTreatsCorruptDataAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "broken", "{not json"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	decoded := []string{"preexisting"}
	if ReadJSON(ctx, store, "broken", &decoded) {
		t.Fatal("ReadJSON should report failure for corrupt data")
	}
	if len(decoded) != 1 || decoded[0] != "preexisting" {
		t.Errorf("corrupt read must leave the target untouched, got %v", decoded)
	}
}

func TestReadJSONMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var decoded map[string]string
	if ReadJSON(ctx, store, "missing", &decoded) {
		t.Fatal("ReadJSON should report failure for a missing key")
	}
}

func TestReadJSONShapeMismatchIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// A list stored where a map is expected reads as corrupt, not as an error.
	if err := store.Set(ctx, "shape", `["a","b"]`); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var decoded map[string]string
	if ReadJSON(ctx, store, "shape", &decoded) {
		t.Fatal("incompatible shape should read as absent")
	}
}
