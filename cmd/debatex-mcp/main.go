package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/debatex/internal/config"
	debatemcp "github.com/peterkuimelis/debatex/internal/mcp"
)

func main() {
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
	opts, err := cfg.SessionOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	debatemcp.SetOptions(opts)

	s := server.NewMCPServer("debatex", "1.0.0")
	debatemcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
