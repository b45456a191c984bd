package net

import (
	"context"
	"encoding/json"
	"net"
	"sync"

	"github.com/peterkuimelis/debatex/internal/view"
)

// Message types for the JSON protocol. The same envelopes travel over TCP
// (one JSON document per line) and over the web socket.

// --- Server → Client messages ---

const (
	MsgTopics   = "topics"
	MsgState    = "state"
	MsgEvent    = "event"
	MsgError    = "error"
	MsgGameOver = "game_over"
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`

	// For "topics"
	Topics []view.TopicSummary `json:"topics,omitempty"`

	// For "state" and "game_over"
	State *view.SessionView `json:"state,omitempty"`

	// For "event"
	Event *view.EventView `json:"event,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over"
	Result string `json:"result,omitempty"`
}

// --- Client → Server messages ---

const (
	MsgStart  = "start"
	MsgSelect = "select"
	MsgUndo   = "undo"
	MsgHome   = "home"
	MsgSync   = "sync"
	MsgList   = "list"
)

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "start"
	TopicID    string `json:"topic_id,omitempty"`
	Stance     string `json:"stance,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Rounds     int    `json:"rounds,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`

	// For "select"
	CardID string `json:"card_id,omitempty"`

	// Optional on any message; switches the language of rendered text.
	Lang string `json:"lang,omitempty"`
}

// Transport carries protocol messages for one player.
type Transport interface {
	Send(ctx context.Context, msg ServerMessage) error
	Receive(ctx context.Context) (ClientMessage, error)
}

// StreamTransport speaks newline-delimited JSON over a stream connection.
type StreamTransport struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex
}

func NewStreamTransport(conn net.Conn) *StreamTransport {
	return &StreamTransport{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// Send encodes one message. json.Encoder terminates it with a newline.
func (t *StreamTransport) Send(ctx context.Context, msg ServerMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enc.Encode(msg)
}

// Receive blocks until the next client message. Cancelling ctx does not
// interrupt a pending read; close the connection for that.
func (t *StreamTransport) Receive(ctx context.Context) (ClientMessage, error) {
	var msg ClientMessage
	if err := ctx.Err(); err != nil {
		return msg, err
	}
	err := t.dec.Decode(&msg)
	return msg, err
}

func (t *StreamTransport) Close() error {
	return t.conn.Close()
}
