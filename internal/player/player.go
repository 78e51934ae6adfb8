// Package player provides a secure interface for launching media players.
// All player invocations use exec.Command with explicit argument slices.
package player

import (
	"go.uber.org/zap"

	"playlistify/internal/media"
)

// Progress is where playback stopped.
type Progress struct {
	Position float64 // Seconds
	Duration float64 // Seconds, 0 if unknown
}

// Player is the interface for media player implementations.
type Player interface {
	// Play plays a track from startPos and blocks until the player exits.
	Play(track media.Track, title string, startPos float64) (Progress, error)

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name. A nil logger disables logging.
func New(name string, log *zap.Logger) Player {
	if log == nil {
		log = zap.NewNop()
	}
	switch name {
	case "mpv":
		return &MPV{log: log}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{log: log} // Default to mpv
	}
}
