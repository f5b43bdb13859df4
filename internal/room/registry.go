package room

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Room codes avoid visually ambiguous characters (I, O, 0, 1, L). Five
// characters over this alphabet give a code space large enough that
// collisions against live rooms are resolved by resampling alone.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 5

// Registry owns the mapping from room code to live room. It is an owned
// object handed to the coordinator, not process-global state, so multiple
// instances can coexist in tests.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create allocates a room with a fresh unique code and the given client as
// sole member and host. The host starts as a spectator until it claims a
// slot.
func (g *Registry) Create(hostID string) (*Room, error) {
	for {
		code, err := newCode()
		if err != nil {
			return nil, err
		}
		if _, taken := g.rooms[code]; taken {
			continue
		}
		r := newRoom(code, hostID)
		g.rooms[code] = r
		return r, nil
	}
}

// Lookup resolves a code case-insensitively.
func (g *Registry) Lookup(code string) (*Room, bool) {
	r, ok := g.rooms[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// DeleteIfEmpty destroys the room when its member set is empty. Invoked
// after every client removal so empty rooms never linger in the registry.
func (g *Registry) DeleteIfEmpty(code string) {
	if r, ok := g.rooms[code]; ok && r.Empty() {
		delete(g.rooms, code)
	}
}

// Len reports the number of live rooms.
func (g *Registry) Len() int {
	return len(g.rooms)
}

func newCode() (string, error) {
	out := make([]byte, codeLength)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		x, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		out[i] = codeAlphabet[x.Int64()]
	}
	return string(out), nil
}
