package domain

import "time"

// Article is a single news item as returned by the news provider.
// Immutable once fetched.
type Article struct {
	Title       string
	Description string
	PublishedAt time.Time
}

// Text is the normalized text used both for classification and as the
// sentiment cache key.
func (a Article) Text() string {
	return a.Title + ". " + a.Description
}
