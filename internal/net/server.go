package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
)

// Server hosts debate sessions for TCP clients. Every connection gets its
// own Controller and its own session.
type Server struct {
	Port    string
	Options Options

	// Local, when set, also plays on the host's terminal over an in-memory
	// pipe. The server stops when the local player quits.
	Local *Client
}

// Run listens on Port and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for debaters on port %s...\n", s.Port)
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, the listener fails, or
// the local player quits.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	errCh := make(chan error, 2)
	if s.Local != nil {
		go func() {
			errCh <- Play(ctx, s.Options, s.Local)
		}()
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					errCh <- nil
				} else {
					errCh <- fmt.Errorf("accept: %w", err)
				}
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.serveConn(ctx, conn)
			}()
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	opts := s.Options
	opts.EventLog = debaterLog(conn.RemoteAddr().String())
	ctrl := NewController(NewStreamTransport(conn), opts)
	log.Printf("Debater %s connected from %s", ctrl.ID(), conn.RemoteAddr())
	logSessionError(ctx, "Debater "+ctrl.ID(), ctrl.Run(ctx))
	log.Printf("Debater %s disconnected", ctrl.ID())
}

// Play runs a session on the local terminal. The client and its controller
// talk over net.Pipe, exactly as a remote client would over TCP.
func Play(ctx context.Context, opts Options, client *Client) error {
	clientConn, serverConn := net.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer serverConn.Close()
		ctrl := NewController(NewStreamTransport(serverConn), opts)
		logSessionError(ctx, "Local debater "+ctrl.ID(), ctrl.Run(ctx))
	}()

	client.conn = clientConn
	err := client.Run(ctx)
	clientConn.Close()
	<-done
	return err
}

// logSessionError reports why a controller stopped, unless the session
// simply ended: the server shut down or the player hung up mid-send.
func logSessionError(ctx context.Context, who string, err error) {
	if err == nil || ctx.Err() != nil || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return
	}
	log.Printf("%s: %v", who, err)
}

// debaterLog prints one connection's debate log on the host, one line per
// event.
type debaterLog string

func (d debaterLog) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		log.Printf("%s | %s", string(d), line)
	}
	return len(p), nil
}
