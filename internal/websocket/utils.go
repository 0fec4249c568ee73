package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// ReadWait is how long a client may stay silent before it is dropped.
	// Clients keep the stream open by sending ping actions.
	ReadWait = 5 * time.Minute
)

// WriteTyped encodes v as one JSON text frame.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// WriteError sends an error event. The connection stays open.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// WriteClose sends a close frame with the given code and reason so the
// client can tell a server shutdown apart from a dropped connection.
func WriteClose(conn *websocket.Conn, code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// ReadJSON decodes the next frame into v, failing if nothing arrives
// within ReadWait.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetReadDeadline(time.Now().Add(ReadWait)); err != nil {
		return err
	}
	return conn.ReadJSON(v)
}
