//go:build ignore

// Decode-notify decodes Hello Fairy BLE notification frames from hex dumps.
//
// Frames can be pasted straight from a btsnoop export or from the debug log
// (FAIRYCTL_LOG_LEVEL=debug logs every frame as hex). Each argument is either
// a hex string or a file with one hex frame per line; '#' starts a comment.
//
// Usage:
//
//	go run tools/decode-notify.go AA0101...
//	go run tools/decode-notify.go "AA 02 01 01 AE" capture.txt
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/muurk/fairyctl/internal/protocol"
	"github.com/muurk/fairyctl/internal/urls"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: decode-notify <hex-frame-or-file>...")
		fmt.Println("Example: decode-notify AA020101AE")
		fmt.Println("         decode-notify notify-capture.txt")
		os.Exit(1)
	}

	frames := [][]byte{}
	for _, arg := range os.Args[1:] {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			fileFrames, err := readFrameFile(arg)
			if err != nil {
				fmt.Printf("Error reading %s: %v\n", arg, err)
				os.Exit(1)
			}
			frames = append(frames, fileFrames...)
			continue
		}

		frame, err := parseHex(arg)
		if err != nil {
			fmt.Printf("Error parsing %q: %v\n", arg, err)
			os.Exit(1)
		}
		frames = append(frames, frame)
	}

	fmt.Printf("=== Hello Fairy Notification Decoder ===\n")
	fmt.Printf("Frames: %d\n\n", len(frames))

	for i, frame := range frames {
		decodeFrame(i+1, frame)
	}
}

func decodeFrame(num int, frame []byte) {
	fmt.Printf("========================================\n")
	fmt.Printf("Frame #%d - %d bytes\n", num, len(frame))
	fmt.Printf("========================================\n\n")

	fmt.Println("Hex Dump (16 bytes/line):")
	hexDump(frame)
	fmt.Println()

	fmt.Println("Checksum Analysis:")
	testChecksum(frame)
	fmt.Println()

	fmt.Println("Decode:")
	status, err := protocol.ParseStatus(frame)
	if err == nil {
		fmt.Printf("  Status notification: %s\n", status)
		fmt.Println()
		return
	}
	fmt.Printf("  Not a status notification: %v\n", err)

	// Our own command frames echo back on some firmware; name those.
	if cmdErr := protocol.ValidateFrame(frame); cmdErr == nil {
		fmt.Printf("  Valid command frame: type 0x%02x (%s)\n", frame[1], protocol.CommandName(frame[1]))
		fmt.Println()
		return
	}

	probeLayouts(frame)
	fmt.Println()
}

// testChecksum checks the trailer against the strip's sum-mod-256 algorithm
// and an XOR alternative, for frames from unverified clone firmware.
func testChecksum(frame []byte) {
	if len(frame) < 2 {
		fmt.Println("  (frame too short)")
		return
	}

	trailer := frame[len(frame)-1]
	body := frame[:len(frame)-1]

	sum := protocol.Checksum(body)
	fmt.Printf("  Sum mod 256:  0x%02x - ", sum)
	if sum == trailer {
		fmt.Println("MATCH")
	} else {
		fmt.Printf("no match (trailer 0x%02x)\n", trailer)
	}

	xor := byte(0)
	for _, b := range body {
		xor ^= b
	}
	fmt.Printf("  XOR of bytes: 0x%02x - ", xor)
	if xor == trailer {
		fmt.Println("MATCH")
	} else {
		fmt.Printf("no match (trailer 0x%02x)\n", trailer)
	}
}

// probeLayouts scans for offsets where the frame reads as a valid status.
// Rebadged units shift the power/mode bytes; a hit here gives the
// StatusLayout to run the controller with.
func probeLayouts(frame []byte) {
	fmt.Println("  Layout probe (for rebadged units):")
	found := false
	for power := 1; power < len(frame)-2 && power <= 12; power++ {
		layout := protocol.StatusLayout{
			PowerOffset:   power,
			ModeOffset:    power + 1,
			PayloadOffset: power + 2,
		}
		status, err := protocol.ParseStatusWithLayout(frame, layout)
		if err != nil {
			continue
		}
		found = true
		fmt.Printf("    power@%d mode@%d payload@%d: %s\n",
			layout.PowerOffset, layout.ModeOffset, layout.PayloadOffset, status)
	}
	if !found {
		fmt.Println("    no plausible layout found")
		return
	}
	fmt.Printf("    To contribute these offsets, see %s\n", urls.CloneSupport)
}

func readFrameFile(filename string) ([][]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	frames := [][]byte{}
	for lineNum, line := range strings.Split(string(data), "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		frame, err := parseHex(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// parseHex accepts bare hex plus the separators btsnoop exports use.
func parseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "-", "", "0x", "", "0X", "").Replace(s)
	return hex.DecodeString(clean)
}

func hexDump(frame []byte) {
	for i := 0; i < len(frame); i += 16 {
		fmt.Printf("%04x  ", i)

		for j := 0; j < 16; j++ {
			if i+j < len(frame) {
				fmt.Printf("%02x ", frame[i+j])
			} else {
				fmt.Print("   ")
			}
			if j == 7 {
				fmt.Print(" ")
			}
		}

		fmt.Print(" |")
		for j := 0; j < 16 && i+j < len(frame); j++ {
			b := frame[i+j]
			if b >= 32 && b <= 126 {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}
