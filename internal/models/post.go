// Package models defines the records exchanged between the store, the
// repositories and the HTTP surface, plus the application error taxonomy.
package models

import "time"

// Post categories. Unrecognized input falls back to CategoryGeneral.
const (
	CategoryGeneral    = "general"
	CategoryIdea       = "idea"
	CategoryShowcase   = "showcase"
	CategoryQuestion   = "question"
	CategoryDiscussion = "discussion"
)

var categories = map[string]bool{
	CategoryGeneral:    true,
	CategoryIdea:       true,
	CategoryShowcase:   true,
	CategoryQuestion:   true,
	CategoryDiscussion: true,
}

// NormalizeCategory maps arbitrary input onto the fixed category enumeration.
func NormalizeCategory(c string) string {
	if categories[c] {
		return c
	}
	return CategoryGeneral
}

// Post is the primary record. AuthorName is a snapshot of the author's
// display name at creation time and is never re-synced on profile changes.
// Likes, Comments, IsLiked and IsBookmarked are derived at read time from
// the likes set and comments list; they are not stored on the record.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Likes        int       `json:"likes"`
	Comments     int       `json:"comments"`
	IsLiked      bool      `json:"is_liked"`
	IsBookmarked bool      `json:"is_bookmarked"`
}
