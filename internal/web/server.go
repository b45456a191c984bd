package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"golang.org/x/text/language"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/net"
	"github.com/peterkuimelis/debatex/internal/view"
)

//go:embed static
var staticFiles embed.FS

// Server is the debatex web UI server. Each web socket gets its own session
// controller.
type Server struct {
	opts net.Options
	mux  *http.ServeMux
}

// NewServer creates a new web server. opts.Store must be set.
func NewServer(opts net.Options) (*Server, error) {
	if opts.Store == nil {
		return nil, content.ErrNoTopics
	}
	s := &Server{
		opts: opts,
		mux:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/topics", s.handleTopics)
	s.mux.HandleFunc("GET /api/topics/{id}", s.handleTopic)
	s.mux.HandleFunc("GET /api/topics/{id}/review", s.handleReview)
	s.mux.HandleFunc("GET /api/difficulties", s.handleDifficulties)

	// Session socket
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.BuildTopicSummaries(s.opts.Store.Topics()))
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	topic, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, view.BuildTopicDetail(topic))
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	topic, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, view.BuildTopicReview(topic, requestLanguage(r)))
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, view.BuildDifficulties())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*content.Topic, bool) {
	topic, err := s.opts.Store.Topic(r.PathValue("id"))
	if errors.Is(err, content.ErrUnknownTopic) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return topic, true
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	opts := s.opts
	opts.Lang = requestLanguage(r)
	ctrl := net.NewController(&socketTransport{conn: wsConn}, opts)
	log.Printf("Session %s opened from %s", ctrl.ID(), r.RemoteAddr)

	if err := ctrl.Run(r.Context()); err != nil {
		log.Printf("Session %s: %v", ctrl.ID(), err)
		wsConn.Close(websocket.StatusInternalError, "session error")
		return
	}
	log.Printf("Session %s closed", ctrl.ID())
	wsConn.Close(websocket.StatusNormalClosure, "session ended")
}

// requestLanguage prefers ?lang= over the Accept-Language header.
func requestLanguage(r *http.Request) language.Tag {
	if tag, ok := view.ParseLanguage(r.URL.Query().Get("lang")); ok {
		return tag
	}
	return view.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}
