package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/coroscal/internal/convert"
	"github.com/meltforce/coroscal/internal/coros"
	"github.com/meltforce/coroscal/internal/ics"
	"github.com/meltforce/coroscal/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dictPath := flag.String("dict", "coros_dictionary.json", "path to COROS dictionary JSON")
	flag.Parse()

	// Stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dict, err := coros.LoadDictionary(*dictPath, log)
	if err != nil {
		log.Error("failed to load dictionary", "error", err)
		os.Exit(1)
	}

	client := coros.NewClient("", "", dict, 30*time.Second, log)
	conv := convert.New(client, ics.Renderer{}, log)

	s := mcp.New(conv, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
