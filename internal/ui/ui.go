// Package ui provides interactive selection and terminal rendering.
// Selection goes through fzf when it is installed, with items piped via
// stdin as plain text, and falls back to an in-terminal list otherwise.
package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"playlistify/internal/httputil"
)

// ErrCancelled is returned when the user leaves a selection without choosing.
var ErrCancelled = errors.New("selection cancelled")

// fzfCancelled is fzf's exit status on Esc or Ctrl-C.
const fzfCancelled = 130

// Select presents items to the user and returns the selected item's index.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return pick(prompt, items)
	}

	cmd := exec.Command(fzfPath, fzfArgs(prompt)...)
	cmd.Stdin = strings.NewReader(fzfInput(items))
	cmd.Stderr = os.Stderr
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == fzfCancelled {
			return -1, ErrCancelled
		}
		return -1, fmt.Errorf("fzf failed: %w", err)
	}
	return parseSelection(stdout.String(), len(items))
}

// fzfArgs keeps list order (playlists are ordered) and shows only the
// item text. No --preview or other shell-evaluated options.
func fzfArgs(prompt string) []string {
	return []string{
		"--prompt", prompt + " > ",
		"--height", "40%",
		"--layout", "reverse",
		"--delimiter", "\t",
		"--with-nth", "2..",
		"--no-sort",
		"--no-multi",
		"--cycle",
	}
}

// fzfInput prefixes each sanitized item with its index and a tab.
func fzfInput(items []string) string {
	var b strings.Builder
	for i, item := range items {
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('\t')
		b.WriteString(httputil.SanitizeField(item))
		b.WriteByte('\n')
	}
	return b.String()
}

// parseSelection reads the index back from the line fzf printed.
func parseSelection(out string, n int) (int, error) {
	line := strings.TrimSpace(out)
	if line == "" {
		return -1, ErrCancelled
	}
	field, _, _ := strings.Cut(line, "\t")
	idx, err := strconv.Atoi(field)
	if err != nil {
		return -1, fmt.Errorf("parsing selection index: %w", err)
	}
	if idx < 0 || idx >= n {
		return -1, fmt.Errorf("selection index %d out of range", idx)
	}
	return idx, nil
}

// Confirm asks the user a yes/no question.
func Confirm(prompt string) (bool, error) {
	idx, err := Select(prompt, []string{"Yes", "No"})
	if err != nil {
		return false, err
	}
	return idx == 0, nil
}
