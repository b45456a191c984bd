package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/debatex/internal/net"
)

// socketTransport carries protocol messages as web socket text frames, one
// JSON document per frame.
type socketTransport struct {
	conn *websocket.Conn
}

func (t *socketTransport) Send(ctx context.Context, msg net.ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return t.conn.Write(ctx, websocket.MessageText, data)
}

// Receive maps a normal close from the browser to io.EOF. A frame that is
// not a client message is answered with an error and skipped.
func (t *socketTransport) Receive(ctx context.Context) (net.ClientMessage, error) {
	for {
		var msg net.ClientMessage
		_, data, err := t.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return msg, io.EOF
			}
			return msg, err
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			reply := net.ServerMessage{Type: net.MsgError, Error: fmt.Sprintf("malformed message: %v", err)}
			if err := t.Send(ctx, reply); err != nil {
				return msg, err
			}
			continue
		}
		return msg, nil
	}
}
