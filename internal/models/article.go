package models

import "time"

// Article is a generated article published from the dashboard.
type Article struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Body          string    `json:"body"`
	ImageFilename string    `json:"imageFilename,omitempty"`
	AuthorID      string    `json:"authorId"`
	AuthorName    string    `json:"authorName,omitempty"`
	PublishedAt   time.Time `json:"publishedAt"`
	CreatedAt     time.Time `json:"createdAt"`
}
