package types

import (
	"time"

	"github.com/google/uuid"
)

// Article represents a piece of content owned by a single author.
type Article struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PublishedAt time.Time    `json:"published_at"` // Defaults to creation time when not supplied.
	AuthorID    uuid.UUID    `json:"author_id"`
	Author      *UserSummary `json:"author,omitempty"` // Populated on reads that join the users table.
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateArticleParams carries the fields accepted when creating an article.
type CreateArticleParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// UpdateArticleParams carries the optional fields of a partial update.
// Nil pointers mean "leave unchanged".
type UpdateArticleParams struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleFilter narrows and pages an article listing.
type ArticleFilter struct {
	Title         string     // substring match, case-sensitive
	AuthorID      *uuid.UUID // exact match
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	Page          int // 1-based, default 1
	Limit         int // default 10
}

// ArticleList is the paginated listing payload. Total is the match count
// before pagination is applied.
type ArticleList struct {
	Items []Article `json:"items"`
	Total int       `json:"total"`
}
