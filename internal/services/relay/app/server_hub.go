package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aptuss/pepper-ws/internal/moderation"
	"github.com/aptuss/pepper-ws/internal/room"
)

// wsPeer serializes writes to one websocket connection. Sends are
// fire-and-forget: a peer whose connection is going away misses the frame and
// gets cleaned up by its own reader loop.
type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) send(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.encoder.Encode(v)
}

// wsSession is the per-connection state. It is owned by the connection's
// reader goroutine; only that goroutine touches it, so it needs no lock.
type wsSession struct {
	clientID string
	peer     *wsPeer
	room     *room.Room
	limiter  moderation.Limiter
}

// hub coordinates every room and peer in the process. One mutex serializes
// all registry and room mutation, so handlers observe rooms in a consistent
// state and invariants hold without per-room locking. Frames are written
// after the lock is released.
type hub struct {
	mu       sync.Mutex
	registry *room.Registry
	peers    map[string]*wsPeer
}

func newHub() *hub {
	return &hub{
		registry: room.NewRegistry(),
		peers:    make(map[string]*wsPeer),
	}
}

func (h *hub) createRoom(sess *wsSession) {
	if sess.room != nil {
		sess.peer.send(errorMessage{Type: msgError, Message: "already in a room"})
		return
	}

	h.mu.Lock()
	r, err := h.registry.Create(sess.clientID)
	if err != nil {
		h.mu.Unlock()
		log.Printf("relay: create room for client=%s: %v", sess.clientID, err)
		sess.peer.send(errorMessage{Type: msgError, Message: "room creation failed"})
		return
	}
	h.peers[sess.clientID] = sess.peer
	h.mu.Unlock()

	sess.room = r
	sess.peer.send(roomCreatedMessage{
		Type:     msgRoomCreated,
		RoomCode: r.Code,
		HostID:   sess.clientID,
		ClientID: sess.clientID,
	})
	h.notify(r, fmt.Sprintf("room %s created", r.Code))
	h.broadcastPresence(r)
}

func (h *hub) joinRoom(sess *wsSession, code string) {
	if sess.room != nil {
		sess.peer.send(errorMessage{Type: msgError, Message: "already in a room"})
		return
	}

	h.mu.Lock()
	r, ok := h.registry.Lookup(code)
	if !ok {
		h.mu.Unlock()
		sess.peer.send(errorMessage{Type: msgError, Message: "room not found"})
		return
	}
	r.Join(sess.clientID)
	h.peers[sess.clientID] = sess.peer
	hostID := r.HostID
	version, state := r.Version, r.State
	h.mu.Unlock()

	sess.room = r
	sess.peer.send(roomJoinedMessage{
		Type:     msgRoomJoined,
		RoomCode: r.Code,
		HostID:   hostID,
		ClientID: sess.clientID,
	})
	if state != nil {
		sess.peer.send(stateMessage{Type: msgState, Version: version, State: state})
	}
	h.notify(r, fmt.Sprintf("%s joined", sess.clientID))
	h.broadcastPresence(r)
}

// publishState applies a host snapshot and fans it out. Rejected publishes
// (wrong sender or stale version) are dropped without a reply so a demoted
// host's in-flight frames die quietly.
func (h *hub) publishState(sess *wsSession, version int64, state json.RawMessage) {
	r := sess.room
	if r == nil {
		return
	}

	h.mu.Lock()
	accepted := r.PublishState(sess.clientID, version, state)
	var targets []*wsPeer
	if accepted {
		targets = h.roomPeersLocked(r)
	}
	h.mu.Unlock()
	if !accepted {
		return
	}

	msg := stateMessage{Type: msgState, Version: version, State: state}
	for _, p := range targets {
		p.send(msg)
	}
}

// relayAction forwards a guest input to the current host only. The relay
// never interprets the action payload.
func (h *hub) relayAction(sess *wsSession, action json.RawMessage) {
	r := sess.room
	if r == nil {
		return
	}

	h.mu.Lock()
	hostPeer := h.peers[r.HostID]
	h.mu.Unlock()
	if hostPeer == nil {
		return
	}

	hostPeer.send(actionMessage{Type: msgAction, From: sess.clientID, Action: action})
}

func (h *hub) chat(sess *wsSession, text, name string) {
	r := sess.room
	if r == nil {
		return
	}
	if !sess.limiter.Allow(time.Now()) {
		sess.peer.send(errorMessage{Type: msgError, Message: "rate limit exceeded"})
		return
	}
	text = moderation.SanitizeText(text)
	if text == "" {
		return
	}
	name = moderation.SanitizeName(name)

	h.mu.Lock()
	seat := r.SeatOf(sess.clientID)
	targets := h.roomPeersLocked(r)
	h.mu.Unlock()

	msg := chatMessage{
		Type: msgChat,
		TS:   time.Now().UnixMilli(),
		From: sess.clientID,
		Seat: string(seat),
		Name: name,
		Text: text,
	}
	for _, p := range targets {
		p.send(msg)
	}
}

func (h *hub) claimSeat(sess *wsSession, value string) {
	r := sess.room
	if r == nil {
		return
	}
	seat, ok := room.ParseSeat(value)
	if !ok {
		sess.peer.send(seatRejectedMessage{Type: msgSeatRejected, Seat: value, Reason: "invalid seat"})
		return
	}

	h.mu.Lock()
	outcome := r.ClaimSeat(sess.clientID, seat)
	h.mu.Unlock()

	switch outcome {
	case room.ClaimTaken:
		sess.peer.send(seatRejectedMessage{Type: msgSeatRejected, Seat: string(seat), Reason: "seat taken"})
	case room.ClaimAccepted:
		sess.peer.send(seatClaimedMessage{Type: msgSeatClaimed, Seat: string(seat)})
		if seat == room.SeatSpectator {
			h.notify(r, fmt.Sprintf("%s is now spectating", sess.clientID))
		} else {
			h.notify(r, fmt.Sprintf("%s claimed seat %s", sess.clientID, seat))
		}
	}
	// Even a rejected move released the requester's previous slot, so the
	// seat table may have changed either way.
	h.broadcastPresence(r)
}

// disconnect tears the session out of its room: seat released, host handoff
// to the earliest surviving member, room destroyed when nobody remains.
func (h *hub) disconnect(sess *wsSession) {
	r := sess.room
	if r == nil {
		return
	}
	sess.room = nil

	h.mu.Lock()
	delete(h.peers, sess.clientID)
	dep := r.Leave(sess.clientID)
	newHost := ""
	if dep.Empty {
		h.registry.DeleteIfEmpty(r.Code)
	} else if dep.WasHost {
		newHost = r.ElectHost()
	}
	h.mu.Unlock()

	if dep.Empty {
		return
	}
	if newHost != "" {
		h.broadcast(r, hostChangedMessage{Type: msgHostChanged, HostID: newHost})
	}
	h.notify(r, fmt.Sprintf("%s left", sess.clientID))
	if newHost != "" {
		h.notify(r, fmt.Sprintf("%s is now the host", newHost))
	}
	h.broadcastPresence(r)
}

// roomPeersLocked collects the live peers of a room in join order. Callers
// must hold h.mu.
func (h *hub) roomPeersLocked(r *room.Room) []*wsPeer {
	members := r.Members()
	peers := make([]*wsPeer, 0, len(members))
	for _, id := range members {
		if p, ok := h.peers[id]; ok {
			peers = append(peers, p)
		}
	}
	return peers
}

func (h *hub) broadcast(r *room.Room, v any) {
	h.mu.Lock()
	targets := h.roomPeersLocked(r)
	h.mu.Unlock()
	for _, p := range targets {
		p.send(v)
	}
}

// notify broadcasts a server-authored chat notice. Notices skip moderation;
// their text is server-controlled.
func (h *hub) notify(r *room.Room, text string) {
	h.broadcast(r, chatMessage{
		Type:   msgChat,
		TS:     time.Now().UnixMilli(),
		Text:   text,
		System: true,
	})
}

func (h *hub) broadcastPresence(r *room.Room) {
	h.mu.Lock()
	snap := r.Snapshot()
	targets := h.roomPeersLocked(r)
	h.mu.Unlock()

	seats := make(map[string]string, len(snap.Seats))
	for seat, owner := range snap.Seats {
		seats[string(seat)] = owner
	}
	msg := presenceMessage{
		Type:     msgPresence,
		RoomCode: snap.Code,
		HostID:   snap.HostID,
		Clients:  snap.Clients,
		Seats:    seats,
	}
	for _, p := range targets {
		p.send(msg)
	}
}
