package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/debatex/internal/config"
	debatenet "github.com/peterkuimelis/debatex/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	var err error
	switch cmd {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "play":
		err = runPlay(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  debatex play [--topic ID] [--stance S] [--difficulty D] [--mode M] [--rounds N] [--topics DIR]")
	fmt.Println("  debatex host [--port P] [--local] [--topics DIR]")
	fmt.Println("  debatex join [--addr ADDR] [--topic ID] [--stance S] [--difficulty D]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Debate on this terminal")
	fmt.Println("  host    Serve debate sessions over TCP")
	fmt.Println("  join    Connect to a debate server")
}

// startFlags registers the setup flags shared by play and join.
func startFlags(fs *flag.FlagSet) func() *debatenet.ClientMessage {
	topic := fs.String("topic", "", "topic id to start right away")
	stance := fs.String("stance", "", "affirmative or negative")
	difficulty := fs.String("difficulty", "", "easy, medium or hard")
	mode := fs.String("mode", "", "area, logic_link or review")
	rounds := fs.Int("rounds", 0, "number of battle rounds")
	lang := fs.String("lang", "", "card text language (en or ja)")
	return func() *debatenet.ClientMessage {
		if *topic == "" {
			return nil
		}
		return &debatenet.ClientMessage{
			Type:       debatenet.MsgStart,
			TopicID:    *topic,
			Stance:     *stance,
			Difficulty: *difficulty,
			Mode:       *mode,
			Rounds:     *rounds,
			Lang:       *lang,
		}
	}
}

// loadOptions reads the environment and applies the common overrides.
func loadOptions(topicsDir string, timer bool, timerSet bool) (debatenet.Options, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return debatenet.Options{}, cfg, err
	}
	if topicsDir != "" {
		cfg.TopicsDir = topicsDir
	}
	if timerSet {
		cfg.Timer = timer
	}
	opts, err := cfg.SessionOptions()
	return opts, cfg, err
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	topicsDir := fs.String("topics", "", "directory of topic documents (default: bundled topics)")
	timer := fs.Bool("timer", true, "enable the turn timer")
	start := startFlags(fs)
	fs.Parse(args)

	opts, _, err := loadOptions(*topicsDir, *timer, flagSet(fs, "timer"))
	if err != nil {
		return err
	}
	// One local player does not need rate limiting.
	opts.IntentRate = 0

	return debatenet.Play(ctx, opts, &debatenet.Client{Start: start()})
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	port := fs.String("port", "", "TCP port to listen on (default $DEBATEX_TCP_PORT or 9000)")
	local := fs.Bool("local", false, "also play on this terminal")
	topicsDir := fs.String("topics", "", "directory of topic documents (default: bundled topics)")
	timer := fs.Bool("timer", true, "enable the turn timer")
	fs.Parse(args)

	opts, cfg, err := loadOptions(*topicsDir, *timer, flagSet(fs, "timer"))
	if err != nil {
		return err
	}
	if *port == "" {
		*port = cfg.TCPPort
	}

	srv := &debatenet.Server{
		Port:    *port,
		Options: opts,
	}
	if *local {
		srv.Local = &debatenet.Client{}
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	start := startFlags(fs)
	fs.Parse(args)

	return debatenet.Connect(ctx, *addr, &debatenet.Client{Start: start()})
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
