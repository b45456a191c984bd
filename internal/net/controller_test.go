package net

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/view"
)

// pipeSession runs a controller on one end of a net.Pipe and returns the
// client end's encoder and decoder.
func pipeSession(t *testing.T, opts Options) (*json.Encoder, *json.Decoder, net.Conn) {
	t.Helper()
	clientConn, serverConn := net.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewController(NewStreamTransport(serverConn), opts).Run(ctx)
		serverConn.Close()
	}()
	t.Cleanup(func() {
		cancel()
		clientConn.Close()
		<-done
	})
	return json.NewEncoder(clientConn), json.NewDecoder(clientConn), clientConn
}

func testOptions(t *testing.T) Options {
	t.Helper()
	store, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	return Options{
		Store:    store,
		Defaults: game.Config{Difficulty: game.DifficultyEasy, Seed: 7},
		// No ticks: every update in these tests comes from an intent.
		Runner: game.RunnerOptions{TickInterval: time.Hour},
	}
}

// expect reads messages until one of the given type arrives.
func expect(t *testing.T, conn net.Conn, dec *json.Decoder, typ string) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func send(t *testing.T, enc *json.Encoder, msg ClientMessage) {
	t.Helper()
	if err := enc.Encode(msg); err != nil {
		t.Fatalf("send %s: %v", msg.Type, err)
	}
}

func TestControllerSession(t *testing.T) {
	enc, dec, conn := pipeSession(t, testOptions(t))

	topics := expect(t, conn, dec, MsgTopics)
	if len(topics.Topics) == 0 || topics.Session == "" {
		t.Fatalf("topics message = %+v", topics)
	}

	send(t, enc, ClientMessage{Type: MsgStart, TopicID: "remote_work", Stance: "aff"})
	st := expect(t, conn, dec, MsgState).State
	if st.Phase != "construct" || st.TopicID != "remote_work" || len(st.Hand) == 0 {
		t.Fatalf("state after start = %+v", st)
	}

	var assertion string
	for _, c := range st.Hand {
		if c.Hint {
			assertion = c.ID
			break
		}
	}
	if assertion == "" {
		t.Fatal("easy hand should hint an assertion")
	}

	send(t, enc, ClientMessage{Type: MsgSelect, CardID: assertion})
	var types []string
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Type == MsgEvent {
			types = append(types, msg.Event.Type)
			continue
		}
		if msg.Type == MsgState {
			st = msg.State
			break
		}
	}
	if strings.Join(types, ",") != "LogicGroupSet,CardAccepted" {
		t.Errorf("events = %v", types)
	}
	if len(st.Tower) != 1 || st.Score != 0 || st.ActiveLogicGroup == "" {
		t.Errorf("after play: tower=%d score=%d group=%q", len(st.Tower), st.Score, st.ActiveLogicGroup)
	}

	send(t, enc, ClientMessage{Type: MsgUndo})
	st = expect(t, conn, dec, MsgState).State
	if len(st.Tower) != 0 || st.ActiveLogicGroup != "" {
		t.Errorf("after undo: tower=%d group=%q", len(st.Tower), st.ActiveLogicGroup)
	}

	send(t, enc, ClientMessage{Type: MsgSelect, CardID: "no-such-card"})
	if msg := expect(t, conn, dec, MsgError); !strings.Contains(msg.Error, "not in hand") {
		t.Errorf("error = %q", msg.Error)
	}

	send(t, enc, ClientMessage{Type: MsgHome})
	for {
		msg := expect(t, conn, dec, MsgState)
		if msg.State.Phase == "start" {
			break
		}
	}
	expect(t, conn, dec, MsgTopics)

	send(t, enc, ClientMessage{Type: MsgUndo})
	if msg := expect(t, conn, dec, MsgError); msg.Error != ErrNoSession.Error() {
		t.Errorf("undo at home = %q", msg.Error)
	}
}

func TestControllerGameOver(t *testing.T) {
	enc, dec, conn := pipeSession(t, testOptions(t))
	expect(t, conn, dec, MsgTopics)

	send(t, enc, ClientMessage{Type: MsgStart, TopicID: "remote_work", Stance: "aff", Lang: "ja"})
	st := expect(t, conn, dec, MsgState).State

	// A reason where an assertion is expected stays in hand; playing it
	// twice costs the whole HP bar.
	var reason string
	for _, c := range st.Hand {
		if c.Type == string(content.CardReason) {
			reason = c.ID
			break
		}
	}
	if reason == "" {
		t.Fatal("hand has no reason card")
	}
	send(t, enc, ClientMessage{Type: MsgSelect, CardID: reason})
	if st := expect(t, conn, dec, MsgState).State; st.PlayerHP != game.MaxHP-game.DamageBig {
		t.Errorf("HP after first miss = %g", st.PlayerHP)
	}
	send(t, enc, ClientMessage{Type: MsgSelect, CardID: reason})

	over := expect(t, conn, dec, MsgGameOver)
	if over.State.Outcome != "defeat" || !strings.HasPrefix(over.Result, "Defeat") {
		t.Errorf("game over = %q / %q", over.State.Outcome, over.Result)
	}
	if len(over.State.ModelAnswer) == 0 {
		t.Error("game over should carry the model answer")
	}

	send(t, enc, ClientMessage{Type: MsgSelect, CardID: reason})
	if msg := expect(t, conn, dec, MsgError); !strings.HasPrefix(msg.Error, game.ErrNotInteractive.Error()) {
		t.Errorf("select after game over = %q", msg.Error)
	}
}

func TestControllerRejectsBadSetup(t *testing.T) {
	enc, dec, conn := pipeSession(t, testOptions(t))
	expect(t, conn, dec, MsgTopics)

	for _, msg := range []ClientMessage{
		{Type: MsgStart, TopicID: "missing"},
		{Type: MsgStart, TopicID: "remote_work", Stance: "sideways"},
		{Type: "dance"},
	} {
		send(t, enc, msg)
		if got := expect(t, conn, dec, MsgError); got.Error == "" {
			t.Errorf("%+v: empty error", msg)
		}
	}
}

func TestControllerRateLimit(t *testing.T) {
	opts := testOptions(t)
	opts.IntentRate = 0.001
	opts.IntentBurst = 1
	enc, dec, conn := pipeSession(t, opts)
	expect(t, conn, dec, MsgTopics)

	send(t, enc, ClientMessage{Type: MsgList})
	expect(t, conn, dec, MsgTopics)
	send(t, enc, ClientMessage{Type: MsgList})
	if msg := expect(t, conn, dec, MsgError); msg.Error != ErrRateLimited.Error() {
		t.Errorf("second intent = %q", msg.Error)
	}
}

func TestClientCommands(t *testing.T) {
	var out bytes.Buffer
	c := &Client{Out: &out}
	c.render(ServerMessage{Type: MsgTopics, Topics: []view.TopicSummary{{ID: "remote_work", Title: "Remote work"}}})

	msg, quit, err := c.command("s 1 neg hard")
	if err != nil || quit {
		t.Fatalf("start command: %v %v", err, quit)
	}
	if msg.TopicID != "remote_work" || msg.Stance != "neg" || msg.Difficulty != "hard" {
		t.Errorf("start = %+v", msg)
	}

	if _, _, err := c.command("1"); err == nil {
		t.Error("playing with an empty hand should fail")
	}
	c.render(ServerMessage{Type: MsgState, State: &view.SessionView{
		Phase: "construct",
		Hand:  []view.CardView{{ID: "a1", Label: "Assertion", Text: "Yes"}, {ID: "r1", Label: "Reason", Text: "Because"}},
	}})
	if msg, _, err := c.command("2"); err != nil || msg.Type != MsgSelect || msg.CardID != "r1" {
		t.Errorf("select = %+v, %v", msg, err)
	}
	if _, _, err := c.command("3"); err == nil {
		t.Error("out of range card should fail")
	}
	if _, quit, _ := c.command("q"); !quit {
		t.Error("q should quit")
	}
	if !strings.Contains(out.String(), "1) [Assertion] Yes") {
		t.Errorf("board not rendered:\n%s", out.String())
	}
}
