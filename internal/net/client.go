package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/debatex/internal/view"
)

// Client connects to a session server and provides a terminal REPL.
type Client struct {
	In  io.Reader // defaults to os.Stdin
	Out io.Writer // defaults to os.Stdout

	// Start, when set, is sent right after connecting.
	Start *ClientMessage

	conn   net.Conn
	topics []view.TopicSummary
	hand   []view.CardView
	board  string // last rendered board, to skip timer-only updates
}

// Connect dials a server and runs the REPL.
func Connect(ctx context.Context, addr string, client *Client) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Println("Connected!")
	client.conn = conn
	return client.Run(ctx)
}

// Run reads server messages and terminal input until the player quits or
// the server goes away.
func (c *Client) Run(ctx context.Context) error {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	enc := json.NewEncoder(c.conn)

	msgs := make(chan ServerMessage)
	readErr := make(chan error, 1)
	go func() {
		dec := json.NewDecoder(c.conn)
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				readErr <- err
				return
			}
			select {
			case msgs <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	if c.Start != nil {
		if err := enc.Encode(c.Start); err != nil {
			return fmt.Errorf("send start: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)

		case msg := <-msgs:
			c.render(msg)

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			out, quit, err := c.command(line)
			if quit {
				return nil
			}
			if err != nil {
				fmt.Fprintln(c.Out, err)
				continue
			}
			if out == nil {
				continue
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("send %s: %w", out.Type, err)
			}
		}
	}
}

const helpText = `Commands:
  <n>                          play hand card n
  u                            undo the last construct card
  s <topic> [stance] [difficulty] [mode] [rounds]
                               start a debate (topic by number or id)
  l                            list topics
  r                            redraw the board
  h                            return home
  q                            quit`

// command turns one line of input into a client message. A nil message with
// a nil error means there is nothing to send.
func (c *Client) command(line string) (*ClientMessage, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		return nil, true, nil
	case "?", "help":
		fmt.Fprintln(c.Out, helpText)
		return nil, false, nil
	case "u", "undo":
		return &ClientMessage{Type: MsgUndo}, false, nil
	case "h", "home":
		return &ClientMessage{Type: MsgHome}, false, nil
	case "l", "list":
		return &ClientMessage{Type: MsgList}, false, nil
	case "r", "redraw":
		c.board = ""
		return &ClientMessage{Type: MsgSync}, false, nil
	case "s", "start":
		return c.startCommand(fields[1:])
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, false, fmt.Errorf("unknown command %q (? for help)", fields[0])
	}
	if n < 1 || n > len(c.hand) {
		if len(c.hand) == 0 {
			return nil, false, errors.New("no cards to play right now")
		}
		return nil, false, fmt.Errorf("enter a number between 1 and %d", len(c.hand))
	}
	return &ClientMessage{Type: MsgSelect, CardID: c.hand[n-1].ID}, false, nil
}

func (c *Client) startCommand(args []string) (*ClientMessage, bool, error) {
	msg := &ClientMessage{Type: MsgStart}
	if len(args) == 0 {
		return msg, false, nil
	}

	msg.TopicID = args[0]
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(c.topics) {
			return nil, false, fmt.Errorf("enter a topic between 1 and %d", len(c.topics))
		}
		msg.TopicID = c.topics[n-1].ID
	}
	if len(args) > 1 {
		msg.Stance = args[1]
	}
	if len(args) > 2 {
		msg.Difficulty = args[2]
	}
	if len(args) > 3 {
		msg.Mode = args[3]
	}
	if len(args) > 4 {
		rounds, err := strconv.Atoi(args[4])
		if err != nil || rounds < 1 {
			return nil, false, errors.New("rounds must be a positive number")
		}
		msg.Rounds = rounds
	}
	return msg, false, nil
}

func (c *Client) render(msg ServerMessage) {
	switch msg.Type {
	case MsgTopics:
		c.topics = msg.Topics
		c.hand = nil
		c.board = ""
		c.renderTopics()

	case MsgEvent:
		c.renderEvent(msg.Event)

	case MsgState:
		if msg.State == nil {
			return
		}
		c.hand = msg.State.Hand
		board := c.formatBoard(msg.State)
		if board != c.board {
			c.board = board
			fmt.Fprint(c.Out, board)
		}

	case MsgGameOver:
		c.renderGameOver(msg)

	case MsgError:
		fmt.Fprintf(c.Out, "Error: %s\n", msg.Error)
	}
}

func (c *Client) renderTopics() {
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "Topics:")
	for i, t := range c.topics {
		fmt.Fprintf(c.Out, "  %d) %s\n", i+1, t.Title)
	}
	fmt.Fprintln(c.Out, "Start with: s <n> [aff|neg] [easy|medium|hard] [area|logic_link|review]")
}

func (c *Client) renderEvent(ev *view.EventView) {
	if ev == nil {
		return
	}
	// Same layout as log.TextLogger
	fmt.Fprintf(c.Out, "R%-2d %-16s| %s\n", ev.Round, ev.Phase, ev.Details)
}

func (c *Client) formatBoard(sv *view.SessionView) string {
	var b strings.Builder

	if sv.Phase == "start" {
		fmt.Fprintln(&b, "\nBack at the start. l to list topics.")
		return b.String()
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "╔══ %s (%s, %s) ══════════════════════\n", sv.TopicTitle, sv.Stance, sv.Difficulty)
	fmt.Fprintf(&b, "║  RIVAL  HP %g/%g\n", sv.OpponentHP, sv.MaxHP)
	if sv.Rival != nil {
		fmt.Fprintf(&b, "║  Rival %s: %s\n", sv.Rival.Kind, sv.Rival.Text)
	}
	fmt.Fprintln(&b, "║──────────────────────────────────────────────")
	for _, cv := range sv.Tower {
		fmt.Fprintf(&b, "║  %s\n", formatCard(cv))
	}
	if len(sv.Picks) > 0 {
		fmt.Fprintln(&b, "║  ·· answers ··")
		for _, cv := range sv.Picks {
			fmt.Fprintf(&b, "║  %s\n", formatCard(cv))
		}
	}
	fmt.Fprintf(&b, "║  YOU  HP %g/%g  Score %d\n", sv.PlayerHP, sv.MaxHP, sv.Score)
	fmt.Fprintln(&b, "╚══════════════════════════════════════════════")

	info := fmt.Sprintf("Round %d/%d | %s", sv.Round, max(sv.Rounds, 1), sv.Phase)
	if sv.NextBlock != "" {
		info += " | Next: " + sv.NextBlock
	}
	fmt.Fprintln(&b, info)

	if sv.Feedback != nil {
		if sv.Feedback.Success {
			fmt.Fprintf(&b, "✓ %s\n", sv.Feedback.Message)
		} else {
			fmt.Fprintf(&b, "✗ %s: %s\n", sv.Feedback.Failure, sv.Feedback.Message)
		}
	}

	for _, g := range sv.Review {
		fmt.Fprintf(&b, "\nGroup %s:\n", g.Group)
		for _, cv := range g.Cards {
			fmt.Fprintf(&b, "  %s\n", formatCard(cv))
		}
	}

	if len(sv.Hand) > 0 {
		fmt.Fprintln(&b, "\nHand:")
		for i, cv := range sv.Hand {
			mark := ""
			if cv.Hint {
				mark = " *"
			}
			fmt.Fprintf(&b, "  %d) %s%s\n", i+1, formatCard(cv), mark)
		}
	}
	return b.String()
}

func formatCard(cv view.CardView) string {
	s := fmt.Sprintf("[%s] %s", cv.Label, cv.Text)
	if cv.Judgment != "" {
		s += " (" + cv.Judgment + ")"
	}
	return s
}

func (c *Client) renderGameOver(msg ServerMessage) {
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "═══════════════════════════════════")
	fmt.Fprintln(c.Out, "          DEBATE OVER")
	fmt.Fprintln(c.Out, "═══════════════════════════════════")
	fmt.Fprintln(c.Out, msg.Result)
	if msg.State != nil && len(msg.State.ModelAnswer) > 0 {
		fmt.Fprintln(c.Out, "Model answer:")
		for _, cv := range msg.State.ModelAnswer {
			fmt.Fprintf(c.Out, "  %s\n", formatCard(cv))
		}
	}
	fmt.Fprintln(c.Out, "═══════════════════════════════════")
	fmt.Fprintln(c.Out, "h to return home, q to quit")
}
