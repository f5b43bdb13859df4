package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aptuss/pepper-ws/internal/platform/id"
	"golang.org/x/net/websocket"
)

// NewHandler creates the relay routes backed by a fresh hub. Each handler
// owns its own room registry, so tests can run servers side by side.
func NewHandler() http.Handler {
	return newHandler(newHub())
}

func newHandler(hub *hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, hub)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

func handleWSConn(conn *websocket.Conn, hub *hub) {
	defer func() {
		_ = conn.Close()
	}()

	clientID, err := id.NewID()
	if err != nil {
		log.Printf("relay: assign client id: %v", err)
		return
	}

	peer := newWSPeer(json.NewEncoder(conn))
	sess := &wsSession{clientID: clientID, peer: peer}
	defer hub.disconnect(sess)

	peer.send(helloMessage{Type: msgHello, ClientID: clientID})

	for {
		// One websocket frame per message: a frame that fails to parse is
		// dropped on its own without corrupting the connection's framing.
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed input gets no reply and changes no state.
			continue
		}

		switch msg.Type {
		case msgCreateRoom:
			hub.createRoom(sess)
		case msgJoinRoom:
			hub.joinRoom(sess, msg.RoomCode)
		case msgPublishState:
			hub.publishState(sess, msg.Version, msg.State)
		case msgAction:
			hub.relayAction(sess, msg.Action)
		case msgChat:
			hub.chat(sess, msg.Text, msg.Name)
		case msgClaimSeat:
			hub.claimSeat(sess, msg.Seat)
		default:
			// Unknown kinds are dropped silently.
		}
	}
}
