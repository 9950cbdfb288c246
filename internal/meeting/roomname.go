package meeting

import (
	"fmt"
	"math/rand/v2"
)

var (
	roomAdjectives = []string{"swift", "bright", "cosmic", "digital", "quantum", "stellar", "neural", "cyber", "prime", "ultra", "mega", "super"}
	roomNouns      = []string{"phoenix", "nebula", "matrix", "vortex", "nexus", "horizon", "pulse", "spark", "nova", "fusion", "titan", "omega"}
)

// RandomRoomName generates a memorable adjective-noun-number room name.
// Names are user-facing suggestions and not guaranteed unique.
func RandomRoomName() string {
	adj := roomAdjectives[rand.IntN(len(roomAdjectives))]
	noun := roomNouns[rand.IntN(len(roomNouns))]
	return fmt.Sprintf("%s-%s-%d", adj, noun, rand.IntN(1000))
}
