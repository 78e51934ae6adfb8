package player

import (
	"fmt"
	"os"
	"os/exec"

	"playlistify/internal/media"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

// Play launches VLC. VLC doesn't have IPC position tracking like mpv,
// so the returned progress is empty.
func (v *VLC) Play(track media.Track, title string, startPos float64) (Progress, error) {
	cmd := exec.Command("vlc", vlcArgs(track, title, startPos)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return Progress{}, nil // VLC exits non-zero on user close
		}
		return Progress{}, fmt.Errorf("running vlc: %w", err)
	}

	return Progress{}, nil
}

func vlcArgs(track media.Track, title string, startPos float64) []string {
	args := []string{
		track.PlaybackURL(),
		"--meta-title", title,
		"--play-and-exit",
	}
	if startPos > 0 {
		args = append(args, fmt.Sprintf("--start-time=%.0f", startPos))
	}
	return args
}
