package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/coroscal/internal/convert"
	"github.com/meltforce/coroscal/internal/coros"
	"github.com/meltforce/coroscal/internal/ics"
)

func main() {
	planURL := flag.String("url", "", "COROS training plan share URL")
	filePath := flag.String("file", "", "path to scraped plan text or API JSON")
	startDate := flag.String("start", "", "plan start date (YYYY-MM-DD, default today)")
	outPath := flag.String("o", "coros_training_plan.ics", "output .ics path")
	dictPath := flag.String("dict", "coros_dictionary.json", "path to COROS dictionary JSON")
	calName := flag.String("name", "", "calendar display name")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *planURL == "" && *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: coroscal-convert -url \"https://...\" | -file plan.txt [-start YYYY-MM-DD] [-o plan.ics]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	dict, err := coros.LoadDictionary(*dictPath, log)
	if err != nil {
		log.Error("failed to load dictionary", "error", err)
		os.Exit(1)
	}

	var rawText string
	if *planURL == "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			log.Error("failed to read input file", "path", *filePath, "error", err)
			os.Exit(1)
		}
		rawText = string(data)
	}

	client := coros.NewClient("", "", dict, 30*time.Second, log)
	renderer := ics.Renderer{CalendarName: *calName}
	conv := convert.New(client, renderer, log)

	ctx := context.Background()
	res, err := conv.Schedule(ctx, *planURL, rawText, *startDate)
	if err != nil {
		log.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	doc, err := conv.Render(res)
	if err != nil {
		log.Error("render failed", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, []byte(doc), 0644); err != nil {
		log.Error("failed to write output", "path", *outPath, "error", err)
		os.Exit(1)
	}

	log.Info("calendar written",
		"path", *outPath,
		"workouts", res.Plan.Len(),
		"weeks", res.Plan.Weeks(),
		"start", res.StartDate,
	)
}
