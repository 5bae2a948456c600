// Command pinboard runs a pinboard: an interactive window, a headless replay
// of scripted gestures, a PNG export, and a JSONBin-compatible document
// server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"

	"github.com/phanxgames/pinboard/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	configPath string
	cfg        config.Config
	log        *log.Entry
}

// setupLogging picks a human formatter on a terminal and JSON otherwise.
func setupLogging(debug bool) *log.Entry {
	logger := log.StandardLogger()
	logger.SetOutput(os.Stderr)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return log.NewEntry(logger)
}
