// Package later implements the listen-it-later inbox: pages shared from
// elsewhere are saved as entries to be scraped and listened to later.
package later

import (
	"context"
	"fmt"
	"strings"
	"time"

	"playlistify/internal/httputil"
	"playlistify/internal/media"
)

// Result classifies the outcome of saving a page.
type Result int

const (
	Success Result = iota
	AlreadyExists
	Error
)

// Message is the text shown to the user for a result. An already saved
// page is reported the same way as a new one.
func (r Result) Message() string {
	switch r {
	case Success, AlreadyExists:
		return "Saved!"
	default:
		return "Sorry, something wrong"
	}
}

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case AlreadyExists:
		return "already_exists"
	default:
		return "error"
	}
}

// Creator stores entries, reporting false when one already exists.
type Creator interface {
	CreateEntry(ctx context.Context, e media.Entry) (bool, error)
}

// NewEntry builds the entry for a shared page. All timestamps are set to now.
func NewEntry(pageURL, title string, now time.Time) media.Entry {
	ts := now.UnixMilli()
	return media.Entry{
		ID:        pageURL,
		Title:     title,
		Crawled:   ts,
		Recrawled: ts,
		Published: ts,
		Alternate: []media.Link{{Href: pageURL, Type: "text/html", Length: 0}},
	}
}

// Save stores the shared (url, title) pair.
func Save(ctx context.Context, c Creator, rawURL, title string, now time.Time) (media.Entry, Result, error) {
	pageURL, err := httputil.NormalizePageURL(rawURL)
	if err != nil {
		return media.Entry{}, Error, fmt.Errorf("invalid page URL: %w", err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return media.Entry{}, Error, fmt.Errorf("no title for %s", pageURL)
	}

	entry := NewEntry(pageURL, title, now)
	created, err := c.CreateEntry(ctx, entry)
	if err != nil {
		return entry, Error, err
	}
	if !created {
		return entry, AlreadyExists, nil
	}
	return entry, Success, nil
}
