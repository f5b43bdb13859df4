// Package room holds the in-memory session model for the relay: rooms keyed
// by short codes, insertion-ordered membership, the host-authoritative state
// version gate, and the exclusive player seat tables.
//
// Types in this package are plain data structures. The session coordinator
// serializes all access, so no locking happens here and rooms never share
// mutable state with each other.
package room

import "encoding/json"

// Seat names one of the four exclusive player slots or the unlimited
// spectator role.
type Seat string

const (
	SeatP1        Seat = "p1"
	SeatP2        Seat = "p2"
	SeatP3        Seat = "p3"
	SeatP4        Seat = "p4"
	SeatSpectator Seat = "spectator"
)

// PlayerSeats lists the exclusive slots in presentation order.
var PlayerSeats = []Seat{SeatP1, SeatP2, SeatP3, SeatP4}

// ParseSeat maps a wire value onto a recognized seat.
func ParseSeat(value string) (Seat, bool) {
	switch Seat(value) {
	case SeatP1, SeatP2, SeatP3, SeatP4, SeatSpectator:
		return Seat(value), true
	default:
		return "", false
	}
}

// Room is one isolated session. The host is the only client whose state
// publishes are accepted; everyone else is a guest holding a player slot or
// spectating.
type Room struct {
	Code    string
	HostID  string
	State   json.RawMessage
	Version int64

	members    []string
	seats      map[Seat]string
	clientSeat map[string]Seat
}

func newRoom(code, hostID string) *Room {
	r := &Room{
		Code:       code,
		HostID:     hostID,
		seats:      make(map[Seat]string, len(PlayerSeats)),
		clientSeat: make(map[string]Seat, 4),
	}
	r.Join(hostID)
	return r
}

// Join appends a client to the member list. New members start as spectators
// until they claim a slot.
func (r *Room) Join(clientID string) {
	for _, id := range r.members {
		if id == clientID {
			return
		}
	}
	r.members = append(r.members, clientID)
	r.clientSeat[clientID] = SeatSpectator
}

// Has reports whether the client is a member.
func (r *Room) Has(clientID string) bool {
	for _, id := range r.members {
		if id == clientID {
			return true
		}
	}
	return false
}

// Members returns the member identifiers in join order.
func (r *Room) Members() []string {
	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}

// Empty reports whether no members remain.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Departure describes the membership consequences of a client leaving.
type Departure struct {
	WasHost bool
	Empty   bool
}

// Leave removes the client and releases any player slot it held. Electing a
// replacement host is the caller's job when WasHost is set and members
// remain.
func (r *Room) Leave(clientID string) Departure {
	for i, id := range r.members {
		if id == clientID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	if seat, ok := r.clientSeat[clientID]; ok && seat != SeatSpectator {
		delete(r.seats, seat)
	}
	delete(r.clientSeat, clientID)

	return Departure{
		WasHost: clientID == r.HostID,
		Empty:   len(r.members) == 0,
	}
}

// ElectHost promotes the earliest-joined surviving member and returns its
// identifier. Returns "" when the room is empty.
func (r *Room) ElectHost() string {
	if len(r.members) == 0 {
		return ""
	}
	r.HostID = r.members[0]
	return r.HostID
}

// ClaimOutcome reports how a seat claim resolved.
type ClaimOutcome int

const (
	// ClaimAccepted means the requested seat (or spectator role) is now held.
	ClaimAccepted ClaimOutcome = iota
	// ClaimTaken means another client holds the requested slot. Any slot the
	// requester previously held has still been released.
	ClaimTaken
)

// ClaimSeat processes a seat request. The requester's current player slot,
// if any, is released unconditionally before the request resolves, so a
// client holds at most one slot at a time.
func (r *Room) ClaimSeat(clientID string, seat Seat) ClaimOutcome {
	if held, ok := r.clientSeat[clientID]; ok && held != SeatSpectator {
		delete(r.seats, held)
	}
	r.clientSeat[clientID] = SeatSpectator

	if seat == SeatSpectator {
		return ClaimAccepted
	}
	if owner, occupied := r.seats[seat]; occupied && owner != clientID {
		return ClaimTaken
	}

	r.seats[seat] = clientID
	r.clientSeat[clientID] = seat
	return ClaimAccepted
}

// SeatOf returns the client's authoritative seat; members with no explicit
// claim are spectators.
func (r *Room) SeatOf(clientID string) Seat {
	if seat, ok := r.clientSeat[clientID]; ok {
		return seat
	}
	return SeatSpectator
}

// PublishState applies a host state publish. It accepts only when the sender
// is the current host and the version is strictly greater than the stored
// one; every other combination leaves the room untouched.
func (r *Room) PublishState(senderID string, version int64, state json.RawMessage) bool {
	if senderID != r.HostID {
		return false
	}
	if version <= r.Version {
		return false
	}
	r.Version = version
	r.State = state
	return true
}

// Presence is the observable membership and seat snapshot of a room.
type Presence struct {
	Code    string
	HostID  string
	Clients []string
	Seats   map[Seat]string
}

// Snapshot derives the presence view. The seats table always carries all
// four player slots; vacant slots are empty strings.
func (r *Room) Snapshot() Presence {
	seats := make(map[Seat]string, len(PlayerSeats))
	for _, s := range PlayerSeats {
		seats[s] = r.seats[s]
	}
	return Presence{
		Code:    r.Code,
		HostID:  r.HostID,
		Clients: r.Members(),
		Seats:   seats,
	}
}
