package player

import (
	"fmt"
	"os"
	"os/exec"

	"playlistify/internal/media"
)

// Generic implements the Player interface for players like iina and celluloid
// that accept mpv-compatible arguments.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool {
	_, err := exec.LookPath(g.name)
	return err == nil
}

// Play launches the generic player. Position tracking is not supported.
func (g *Generic) Play(track media.Track, title string, startPos float64) (Progress, error) {
	cmd := exec.Command(g.name, genericArgs(track, title, startPos)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return Progress{}, nil
		}
		return Progress{}, fmt.Errorf("running %s: %w", g.name, err)
	}

	return Progress{}, nil
}

func genericArgs(track media.Track, title string, startPos float64) []string {
	args := []string{track.PlaybackURL(), "--force-media-title=" + title}
	if startPos > 0 {
		args = append(args, fmt.Sprintf("--start=+%.0f", startPos))
	}
	return args
}
