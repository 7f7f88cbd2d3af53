// paceprobe exercises the pacing engine from the command line: segment a
// reply, or coalesce a burst of fragments, and print what the service would
// deliver. Handy for tuning thresholds without running the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dkhromov/patter/internal/coalesce"
	"github.com/dkhromov/patter/internal/pacing"
)

type options struct {
	text       string
	force      bool
	fragments  string
	seed       int64
	maxLength  int
	maxParts   int
	minDelayMs int
	maxDelayMs int
}

func main() {
	var opts options
	flag.StringVar(&opts.text, "text", "", "reply text to segment (reads stdin when empty)")
	flag.BoolVar(&opts.force, "force", false, "force a split even for short text")
	flag.StringVar(&opts.fragments, "coalesce", "", "pipe-separated fragments to coalesce instead of segmenting")
	flag.Int64Var(&opts.seed, "seed", 1, "delay RNG seed")
	flag.IntVar(&opts.maxLength, "max-length", 150, "preferred part length cap")
	flag.IntVar(&opts.maxParts, "max-parts", 3, "maximum delivered parts")
	flag.IntVar(&opts.minDelayMs, "min-delay", 500, "minimum per-part delay, ms")
	flag.IntVar(&opts.maxDelayMs, "max-delay", 2000, "maximum per-part delay, ms")
	flag.Parse()

	if opts.fragments != "" {
		runCoalesce(opts)
		return
	}
	runSegment(opts)
}

func runSegment(opts options) {
	text := opts.text
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
	}

	seg := pacing.NewSegmenter(pacing.Options{
		MaxLength:  opts.maxLength,
		MaxParts:   opts.maxParts,
		MinDelayMs: opts.minDelayMs,
		MaxDelayMs: opts.maxDelayMs,
	}, pacing.NewScheduler(opts.seed))

	res := seg.Segment(text, opts.force)
	fmt.Printf("parts=%d has_question=%v truncated=%v\n", len(res.Parts), res.HasQuestion, res.Truncated)
	for i, part := range res.Parts {
		fmt.Printf("  [%d] +%dms %q\n", i, res.DelaysMs[i], part)
	}
}

func runCoalesce(opts options) {
	pieces := strings.Split(opts.fragments, "|")
	now := time.Now()
	fragments := make([]coalesce.Fragment, 0, len(pieces))
	for i, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fragments = append(fragments, coalesce.Fragment{
			Text: p,
			At:   now.Add(time.Duration(i) * time.Second),
		})
	}

	c := coalesce.New(coalesce.Options{}, nil)
	res := c.Combine(context.Background(), fragments)
	fmt.Printf("strategy=%s count=%d short_sequence=%v\n", res.Strategy, res.MessageCount, res.IsShortSequence)
	fmt.Printf("combined: %s\n", res.CombinedText)
}
