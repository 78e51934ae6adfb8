package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"playlistify/internal/media"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	indexStyle = lipgloss.NewStyle().Faint(true)
	urlStyle   = lipgloss.NewStyle().Faint(true).Underline(true)

	providerStyles = map[media.Provider]lipgloss.Style{
		media.YouTube:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Width(10),
		media.SoundCloud: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Width(10),
		media.Vimeo:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(10),
		media.Raw:        lipgloss.NewStyle().Width(10),
	}
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Renderer writes human-readable listings, styled when writing to a terminal.
type Renderer struct {
	w      io.Writer
	styled bool
}

// NewRenderer creates a Renderer. Styling is only applied if styled is true.
func NewRenderer(w io.Writer, styled bool) *Renderer {
	return &Renderer{w: w, styled: styled}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Playlist writes a playlist with one numbered line per track.
func (r *Renderer) Playlist(p *media.Playlist) {
	fmt.Fprintf(r.w, "%s (%s)\n", r.style(titleStyle, p.Title), countTracks(len(p.Tracks)))
	if p.ID != "" {
		fmt.Fprintf(r.w, "  %s\n", r.style(urlStyle, p.ID))
	}
	for i, t := range p.Tracks {
		provider := fmt.Sprintf("%-10s", t.Provider())
		if r.styled {
			provider = providerStyles[t.Provider()].Render(t.Provider().String())
		}
		fmt.Fprintf(r.w, "  %s %s %s\n", r.style(indexStyle, fmt.Sprintf("%3d.", i+1)), provider, t.Identifier())
	}
}

// Playlists writes a one-line summary per playlist.
func (r *Renderer) Playlists(playlists []*media.Playlist) {
	for i, p := range playlists {
		fmt.Fprintf(r.w, "%s %s (%s)\n  %s\n",
			r.style(indexStyle, fmt.Sprintf("%3d.", i+1)),
			r.style(titleStyle, p.Title),
			countTracks(len(p.Tracks)),
			r.style(urlStyle, p.ID))
	}
}

// Entries writes the listen-it-later inbox.
func (r *Renderer) Entries(entries []media.Entry) {
	for _, e := range entries {
		saved := time.UnixMilli(e.Crawled).UTC().Format("2006-01-02 15:04")
		fmt.Fprintf(r.w, "%s  %s\n  %s\n",
			r.style(indexStyle, saved),
			r.style(titleStyle, e.Title),
			r.style(urlStyle, e.ID))
	}
}

// FormatTrack creates a display string for track selection.
func FormatTrack(i int, t media.Track) string {
	return fmt.Sprintf("%d. %s %s", i+1, t.Provider(), t.Identifier())
}

func countTracks(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}
