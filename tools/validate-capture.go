//go:build ignore

// Validate-capture runs the status parser over captured notification frames
// and reports how much of the capture it understands. Captures are text
// files with one hex frame per line ('#' starts a comment), the format the
// debug log and btsnoop exports reduce to.
//
// Usage:
//
//	go run tools/validate-capture.go captures/
//	go run tools/validate-capture.go notify-20260814.txt
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muurk/fairyctl/internal/protocol"
)

type statistics struct {
	TotalFrames  int
	TotalFiles   int
	ParseSuccess int
	ParseFailure int
	PowerStates  map[string]int
	Modes        map[string]int
	FrameLengths map[int]int
	Failures     []failedFrame
}

type failedFrame struct {
	File       string
	LineNumber int
	FrameHex   string
	Error      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate-capture <directory-or-file>")
		fmt.Println("Example: validate-capture captures/")
		fmt.Println("         validate-capture notify-20260814.txt")
		os.Exit(1)
	}

	path := os.Args[1]

	stats := statistics{
		PowerStates:  make(map[string]int),
		Modes:        make(map[string]int),
		FrameLengths: make(map[int]int),
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if info.IsDir() {
		pattern := filepath.Join(path, "*.txt")
		files, err = filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("Error finding capture files: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Printf("No .txt capture files found in %s\n", path)
			os.Exit(1)
		}
	} else {
		files = []string{path}
	}

	fmt.Printf("=== Hello Fairy Capture Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)
}

func processFile(filename string, stats *statistics) {
	stats.TotalFiles++

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading file %s: %v\n", filename, err)
		return
	}

	for lineNum, line := range strings.Split(string(data), "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		stats.TotalFrames++

		clean := strings.NewReplacer(" ", "", ":", "", "-", "").Replace(line)
		frame, err := hex.DecodeString(clean)
		if err != nil {
			stats.ParseFailure++
			stats.Failures = append(stats.Failures, failedFrame{
				File:       filename,
				LineNumber: lineNum + 1,
				FrameHex:   line,
				Error:      fmt.Sprintf("hex decode error: %v", err),
			})
			continue
		}

		stats.FrameLengths[len(frame)]++

		status, err := protocol.ParseStatus(frame)
		if err != nil {
			stats.ParseFailure++
			stats.Failures = append(stats.Failures, failedFrame{
				File:       filename,
				LineNumber: lineNum + 1,
				FrameHex:   line,
				Error:      err.Error(),
			})
			continue
		}

		stats.ParseSuccess++
		stats.PowerStates[status.Power.String()]++
		stats.Modes[status.Mode.String()]++
	}
}

func printStatistics(stats *statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Total Frames:       %d\n", stats.TotalFrames)
	if stats.TotalFrames > 0 {
		fmt.Printf("Parse Success:      %d (%.2f%%)\n", stats.ParseSuccess,
			float64(stats.ParseSuccess)/float64(stats.TotalFrames)*100)
		fmt.Printf("Parse Failure:      %d (%.2f%%)\n", stats.ParseFailure,
			float64(stats.ParseFailure)/float64(stats.TotalFrames)*100)
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("POWER / MODE DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	for _, name := range sortedKeys(stats.PowerStates) {
		fmt.Printf("power %-8s %d\n", name+":", stats.PowerStates[name])
	}
	for _, name := range sortedKeys(stats.Modes) {
		fmt.Printf("mode  %-8s %d\n", name+":", stats.Modes[name])
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("FRAME LENGTH DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	lengths := make([]int, 0, len(stats.FrameLengths))
	for length := range stats.FrameLengths {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	for _, length := range lengths {
		count := stats.FrameLengths[length]
		percentage := float64(count) / float64(stats.TotalFrames) * 100
		fmt.Printf("%d bytes: %d frames (%.2f%%)\n", length, count, percentage)
	}

	if len(stats.Failures) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("PARSE FAILURES (%d total)\n", len(stats.Failures))
		fmt.Printf("----------------------------------------\n")

		maxShow := 10
		if len(stats.Failures) > maxShow {
			fmt.Printf("(Showing first %d of %d failures)\n", maxShow, len(stats.Failures))
		}

		for i, failed := range stats.Failures {
			if i >= maxShow {
				break
			}
			fmt.Printf("\nFailure #%d:\n", i+1)
			fmt.Printf("  File: %s (line %d)\n", failed.File, failed.LineNumber)
			fmt.Printf("  Error: %s\n", failed.Error)
			preview := failed.FrameHex
			if len(preview) > 80 {
				preview = preview[:80] + "..."
			}
			fmt.Printf("  Frame: %s\n", preview)
		}
	}

	fmt.Printf("\n========================================\n")
	if stats.ParseFailure == 0 {
		fmt.Printf("SUCCESS: every frame parsed\n")
	} else {
		fmt.Printf("ISSUES FOUND: %d frames failed to parse\n", stats.ParseFailure)
		fmt.Printf("Run decode-notify.go on a failing frame to probe its layout\n")
	}
	fmt.Printf("========================================\n")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
