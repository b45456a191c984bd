package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/net"
	"github.com/peterkuimelis/debatex/internal/view"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	s, err := NewServer(net.Options{
		Store:    store,
		Defaults: game.Config{Difficulty: game.DifficultyEasy, Seed: 3},
		Runner:   game.RunnerOptions{TickInterval: time.Hour},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, header http.Header, v any) int {
	t.Helper()
	req, _ := http.NewRequest("GET", url, nil)
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestTopicEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var topics []view.TopicSummary
	if code := getJSON(t, ts.URL+"/api/topics", nil, &topics); code != http.StatusOK || len(topics) < 2 {
		t.Fatalf("topics: %d %v", code, topics)
	}

	var detail view.TopicDetail
	if code := getJSON(t, ts.URL+"/api/topics/remote_work", nil, &detail); code != http.StatusOK {
		t.Fatalf("detail status %d", code)
	}
	if detail.ID != "remote_work" || len(detail.Stances) != 2 {
		t.Errorf("detail = %+v", detail)
	}

	if code := getJSON(t, ts.URL+"/api/topics/nope", nil, nil); code != http.StatusNotFound {
		t.Errorf("missing topic status %d", code)
	}

	var diffs []view.DifficultyView
	getJSON(t, ts.URL+"/api/difficulties", nil, &diffs)
	if len(diffs) != 3 || diffs[0].ID != "easy" || !diffs[0].ShowHint {
		t.Errorf("difficulties = %+v", diffs)
	}
}

func TestReviewLanguage(t *testing.T) {
	ts := newTestServer(t)

	var en, ja map[string][]view.ReviewGroupView
	getJSON(t, ts.URL+"/api/topics/remote_work/review", nil, &en)
	getJSON(t, ts.URL+"/api/topics/remote_work/review", http.Header{"Accept-Language": {"ja-JP,ja;q=0.9"}}, &ja)

	if len(en["affirmative"]) == 0 || len(ja["affirmative"]) == 0 {
		t.Fatalf("review groups missing: %d / %d", len(en["affirmative"]), len(ja["affirmative"]))
	}
	enText := en["affirmative"][0].Cards[0].Text
	jaText := ja["affirmative"][0].Cards[0].Text
	if enText == jaText {
		t.Errorf("Accept-Language ignored: %q", jaText)
	}

	var forced map[string][]view.ReviewGroupView
	getJSON(t, ts.URL+"/api/topics/remote_work/review?lang=en", http.Header{"Accept-Language": {"ja"}}, &forced)
	if forced["affirmative"][0].Cards[0].Text != enText {
		t.Error("?lang should win over Accept-Language")
	}
}

func TestWebSocketSession(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	read := func(typ string) net.ServerMessage {
		t.Helper()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				t.Fatalf("read %s: %v", typ, err)
			}
			var msg net.ServerMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if msg.Type == typ {
				return msg
			}
		}
	}
	write := func(msg net.ClientMessage) {
		t.Helper()
		data, _ := json.Marshal(msg)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if msg := read(net.MsgTopics); len(msg.Topics) == 0 {
		t.Fatal("no topics on connect")
	}

	write(net.ClientMessage{Type: net.MsgStart, TopicID: "remote_work", Stance: "neg", Mode: "review"})
	st := read(net.MsgState).State
	if st.Phase != "review" || len(st.Review) == 0 || st.Interactive {
		t.Errorf("review state = %+v", st)
	}

	write(net.ClientMessage{Type: net.MsgUndo})
	if msg := read(net.MsgError); !strings.Contains(msg.Error, "does not accept") {
		t.Errorf("undo in review = %q", msg.Error)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := read(net.MsgError); !strings.Contains(msg.Error, "malformed message") {
		t.Errorf("malformed frame = %q", msg.Error)
	}
	write(net.ClientMessage{Type: net.MsgSync})
	if st := read(net.MsgState).State; st.Phase != "review" {
		t.Errorf("session should survive a malformed frame, phase = %s", st.Phase)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}
