package entity

import (
	"strings"
	"time"
)

// ContentItem is a unit of media submitted for distribution to every
// enabled account. Items are immutable after creation; the scheduling
// core never deletes them.
type ContentItem struct {
	ID          string     `json:"id"`
	MediaPath   string     `json:"media_path"` // local file path or public URL
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Link        string     `json:"link,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"` // set once posted everywhere
}

// Validate checks the item before submission.
func (c *ContentItem) Validate() error {
	if strings.TrimSpace(c.MediaPath) == "" {
		return ErrEmptyMediaPath
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// IsRemote reports whether the media lives behind a URL rather than on
// the local filesystem.
func (c *ContentItem) IsRemote() bool {
	return strings.HasPrefix(c.MediaPath, "http://") || strings.HasPrefix(c.MediaPath, "https://")
}
