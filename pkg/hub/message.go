// Package hub fans out dashboard messages to websocket clients using the
// channel-based register/unregister/broadcast pattern.
package hub

import "github.com/gofiber/websocket/v2"

// Message is one payload queued for every client of a hub.
// Status and alert streams send JSON text; the camera stream sends JPEG bytes.
type Message struct {
	Binary bool
	Data   []byte

	seq uint64 // assigned by Broadcast
}

// NewJSONMessage wraps pre-encoded JSON.
func NewJSONMessage(data []byte) Message {
	return Message{Data: data}
}

// NewBinaryMessage wraps raw bytes such as an encoded frame.
func NewBinaryMessage(data []byte) Message {
	return Message{Binary: true, Data: data}
}

// frameType maps the message to its websocket frame opcode.
func (m Message) frameType() int {
	if m.Binary {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
