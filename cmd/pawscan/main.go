package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/coreos/go-systemd/daemon"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/server"
	"github.com/cyclopcam/pawscan/server/config"
)

func main() {
	parser := argparse.NewParser("pawscan", "Dog behavior analysis")
	configFile := parser.String("c", "config", &argparse.Options{Help: "JSON configuration file", Default: ""})

	serveCmd := parser.NewCommand("serve", "Run the HTTP server")
	dbFile := serveCmd.String("", "db", &argparse.Options{Help: "Session database file (overrides config)", Default: ""})
	listen := serveCmd.String("", "listen", &argparse.Options{Help: "Listen address, eg :8080 (overrides config)", Default: ""})

	replayCmd := parser.NewCommand("replay", "Run a recorded capture through the pipeline and print the result as JSON")
	replayFile := replayCmd.StringPositional(&argparse.Options{Help: "Recorded frames, one JSON object per line", Required: true})
	sampleRate := replayCmd.Int("", "rate", &argparse.Options{Help: "Audio sample rate of the recording (0 for visual-only)", Default: 0})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if serveCmd.Happened() {
		if *dbFile != "" {
			cfg.Database = *dbFile
		}
		if *listen != "" {
			cfg.Listen = *listen
		}
		os.Exit(serve(logger, cfg))
	} else if replayCmd.Happened() {
		os.Exit(replayMain(logger, cfg, *replayFile, *sampleRate))
	}
}

func serve(logger logs.Log, cfg *config.Config) int {
	srv, err := server.NewServer(logger, cfg)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	srv.ListenForKillSignals()
	err = srv.ListenHTTP(cfg.Listen, func() {
		// Tell systemd that we're alive
		daemon.SdNotify(false, daemon.SdNotifyReady)
	})
	if err != nil {
		logger.Errorf("ListenHTTP: %v", err)
		srv.Shutdown()
		return 1
	}
	return 0
}

func replayMain(logger logs.Log, cfg *config.Config, filename string, sampleRate int) int {
	f, err := os.Open(filename)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	defer f.Close()
	res, err := replay(logger, cfg.Scan, f, sampleRate)
	if err != nil {
		logger.Errorf("Replay of %v failed: %v", filename, err)
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}
