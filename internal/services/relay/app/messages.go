package server

import "encoding/json"

// Client-originated message kinds.
const (
	msgCreateRoom   = "CREATE_ROOM"
	msgJoinRoom     = "JOIN_ROOM"
	msgPublishState = "PUBLISH_STATE"
	msgAction       = "ACTION"
	msgChat         = "CHAT"
	msgClaimSeat    = "CLAIM_SEAT"
)

// Server-originated message kinds.
const (
	msgHello        = "HELLO"
	msgRoomCreated  = "ROOM_CREATED"
	msgRoomJoined   = "ROOM_JOINED"
	msgError        = "ERROR"
	msgState        = "STATE"
	msgPresence     = "PRESENCE"
	msgSeatClaimed  = "SEAT_CLAIMED"
	msgSeatRejected = "SEAT_REJECTED"
	msgHostChanged  = "HOST_CHANGED"
)

// clientMessage is the union of every client-originated message. The type
// field selects which of the remaining fields carry meaning.
type clientMessage struct {
	Type     string          `json:"type"`
	RoomCode string          `json:"roomCode,omitempty"`
	Version  int64           `json:"version,omitempty"`
	State    json.RawMessage `json:"state,omitempty"`
	Action   json.RawMessage `json:"action,omitempty"`
	Text     string          `json:"text,omitempty"`
	Name     string          `json:"name,omitempty"`
	Seat     string          `json:"seat,omitempty"`
}

type helloMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

type roomCreatedMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	HostID   string `json:"hostId"`
	ClientID string `json:"clientId"`
}

type roomJoinedMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	HostID   string `json:"hostId"`
	ClientID string `json:"clientId"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type stateMessage struct {
	Type    string          `json:"type"`
	Version int64           `json:"version"`
	State   json.RawMessage `json:"state"`
}

type actionMessage struct {
	Type   string          `json:"type"`
	From   string          `json:"from"`
	Action json.RawMessage `json:"action"`
}

// chatMessage doubles as the participant broadcast and the system notice.
// System notices carry no sender fields and set the system flag.
type chatMessage struct {
	Type   string `json:"type"`
	TS     int64  `json:"ts"`
	From   string `json:"from,omitempty"`
	Seat   string `json:"seat,omitempty"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text"`
	System bool   `json:"system,omitempty"`
}

type presenceMessage struct {
	Type     string            `json:"type"`
	RoomCode string            `json:"roomCode"`
	HostID   string            `json:"hostId"`
	Clients  []string          `json:"clients"`
	Seats    map[string]string `json:"seats"`
}

type seatClaimedMessage struct {
	Type string `json:"type"`
	Seat string `json:"seat"`
}

type seatRejectedMessage struct {
	Type   string `json:"type"`
	Seat   string `json:"seat"`
	Reason string `json:"reason"`
}

type hostChangedMessage struct {
	Type   string `json:"type"`
	HostID string `json:"hostId"`
}
