package models

import "time"

// Comment is append-only: there is no update or delete path.
// AuthorName carries the same snapshot semantics as Post.AuthorName.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
