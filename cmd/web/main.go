package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/debatex/internal/config"
	"github.com/peterkuimelis/debatex/internal/web"
)

func main() {
	port := flag.String("port", "", "HTTP port to listen on (default $DEBATEX_HTTP_PORT or 8080)")
	topicsDir := flag.String("topics", "", "directory of topic documents (default: bundled topics)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *topicsDir != "" {
		cfg.TopicsDir = *topicsDir
	}
	if *port == "" {
		*port = cfg.HTTPPort
	}

	opts, err := cfg.SessionOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	srv, err := web.NewServer(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Printf("debatex web UI listening on http://localhost:%s (%d topics)", *port, len(opts.Store.Topics()))
	if err := srv.ListenAndServe(":" + *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
