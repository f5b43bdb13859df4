// Package relay implements the real-time transport for ephemeral game rooms.
//
// It keeps WebSocket lifecycle, room membership, and fan-out isolated from
// the application state itself, which stays opaque to the server and owned by
// each room's host.
package relay
