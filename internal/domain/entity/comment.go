package entity

import "strconv"

// missingAuthorKey is the cache key used for comments without an author id.
const missingAuthorKey = "null"

// Comment is a single message in a ticket's conversation thread.
type Comment struct {
	// AuthorID is nil when the backend returned no author for the comment.
	AuthorID *int64

	// PlainBody is the comment text without markup.
	PlainBody string

	// CreatedAt is the raw ISO-8601 UTC timestamp as returned by the backend.
	// It is kept unparsed so that malformed values can be shown verbatim.
	CreatedAt string

	// Attachments in the order the backend listed them.
	Attachments []Attachment
}

// Attachment is a file attached to a comment.
type Attachment struct {
	ContentURL string
	FileName   string
}

// AuthorKey returns the key identifying the comment's author within a run.
func (c *Comment) AuthorKey() string {
	return AuthorKey(c.AuthorID)
}

// AuthorKey converts an optional author id to its string form.
// A nil id maps to the literal "null" so that every anonymous comment shares one key.
func AuthorKey(id *int64) string {
	if id == nil {
		return missingAuthorKey
	}
	return strconv.FormatInt(*id, 10)
}
