package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"playlistify/internal/media"
)

// MPV implements the Player interface for mpv.
// Uses exec.Command with explicit args (no shell interpretation)
// and IPC via Unix socket at a randomized temp path.
type MPV struct {
	log *zap.Logger
}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

// positionWait bounds how long to wait for the IPC reader after mpv exits.
const positionWait = 2 * time.Second

// Play launches mpv with the given track and returns where playback stopped.
func (m *MPV) Play(track media.Track, title string, startPos float64) (Progress, error) {
	// Create randomized IPC socket path (prevents symlink attacks)
	socketDir, err := os.MkdirTemp("", "playlistify-mpv-*")
	if err != nil {
		return Progress{}, fmt.Errorf("creating temp dir for mpv socket: %w", err)
	}
	defer os.RemoveAll(socketDir)

	socketPath := filepath.Join(socketDir, "socket")

	cmd := exec.Command("mpv", mpvArgs(track, title, startPos, socketPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return Progress{}, fmt.Errorf("starting mpv: %w", err)
	}

	progress := make(chan Progress, 1)
	go func() {
		progress <- m.trackProgress(socketPath)
	}()

	if err := cmd.Wait(); err != nil {
		// mpv returns non-zero on user quit, which is normal
		m.log.Debug("mpv exited", zap.Error(err))
	}

	select {
	case p := <-progress:
		return p, nil
	case <-time.After(positionWait):
		return Progress{}, nil
	}
}

func mpvArgs(track media.Track, title string, startPos float64, socketPath string) []string {
	args := []string{
		track.PlaybackURL(),
		"--force-media-title=" + title,
		"--input-ipc-server=" + socketPath,
		"--really-quiet",
	}
	if track.Provider() == media.SoundCloud || track.Provider() == media.YouTube {
		args = append(args, "--ytdl=yes")
	}
	if startPos > 0 {
		args = append(args, fmt.Sprintf("--start=+%.0f", startPos))
	}
	return args
}

// trackProgress reads mpv's IPC socket for the playback position and duration.
func (m *MPV) trackProgress(socketPath string) Progress {
	// Wait for socket to appear
	for i := 0; i < 50; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		m.log.Debug("mpv IPC unavailable", zap.Error(err))
		return Progress{}
	}
	defer conn.Close()

	for i, property := range []string{"time-pos", "duration"} {
		if err := observe(conn, i+1, property); err != nil {
			m.log.Debug("observing mpv property", zap.String("property", property), zap.Error(err))
			return Progress{}
		}
	}

	return readProgress(conn)
}

func observe(w io.Writer, id int, property string) error {
	data, err := json.Marshal(map[string]any{
		"command": []any{"observe_property", id, property},
	})
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// readProgress consumes property-change events until the stream ends.
func readProgress(r io.Reader) Progress {
	var p Progress
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var event struct {
			Event string  `json:"event"`
			Name  string  `json:"name"`
			Data  float64 `json:"data"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.Data <= 0 {
			continue
		}
		switch event.Name {
		case "time-pos":
			p.Position = event.Data
		case "duration":
			p.Duration = event.Data
		}
	}
	return p
}
