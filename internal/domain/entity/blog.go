package entity

import "time"

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Post is a blog article. Content holds the block-editor document as opaque
// JSON; the server never interprets it.
type Post struct {
	ID            string
	AuthorID      string
	CategoryID    *string
	Title         string
	Slug          string
	Excerpt       string
	Content       []byte
	CoverImageURL string
	Status        PostStatus
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Tags          []Tag
}

type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Tag struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Media is an uploaded file living in the storage bucket with a row of
// metadata alongside.
type Media struct {
	ID          string
	UploaderID  string
	FileName    string
	ObjectPath  string
	URL         string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
