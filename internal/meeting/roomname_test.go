package meeting

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestRandomRoomNameShape(t *testing.T) {
	pattern := regexp.MustCompile(`^([a-z]+)-([a-z]+)-(\d{1,3})$`)

	adjectives := make(map[string]struct{}, len(roomAdjectives))
	for _, a := range roomAdjectives {
		adjectives[a] = struct{}{}
	}
	nouns := make(map[string]struct{}, len(roomNouns))
	for _, n := range roomNouns {
		nouns[n] = struct{}{}
	}

	for i := 0; i < 50; i++ {
		name := RandomRoomName()
		parts := pattern.FindStringSubmatch(name)
		if parts == nil {
			t.Fatalf("unexpected room name shape: %s", name)
		}
		if _, ok := adjectives[parts[1]]; !ok {
			t.Errorf("unknown adjective in %s", name)
		}
		if _, ok := nouns[parts[2]]; !ok {
			t.Errorf("unknown noun in %s", name)
		}
		if n, err := strconv.Atoi(parts[3]); err != nil || n < 0 || n > 999 {
			t.Errorf("number out of range in %s", name)
		}
		if strings.ContainsAny(name, " \t") {
			t.Errorf("room name must not contain whitespace: %q", name)
		}
	}
}
