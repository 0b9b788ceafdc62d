package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm prompts the user with a yes/no question and reads a single line
// from stdin. Returns true only for "y" or "yes" (case-insensitive); any
// other input, EOF, or a read error counts as no.
func Confirm(prompt string) bool {
	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	fmt.Print(promptStyle.Render(prompt + " [y/N]: "))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	fmt.Println(cancelStyle.Render("  Operation cancelled."))
	return false
}
