package zendesk

import (
	gozendesk "github.com/nukosuke/go-zendesk/zendesk"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
)

// createdAtLayout is the timestamp format Zendesk uses in API responses.
const createdAtLayout = "2006-01-02T15:04:05Z"

// commentToEntity maps an SDK comment. Zendesk omits author_id for system
// comments, which the SDK decodes as zero.
func commentToEntity(tc gozendesk.TicketComment) *entity.Comment {
	c := &entity.Comment{
		PlainBody: tc.PlainBody,
	}
	if tc.AuthorID != 0 {
		id := tc.AuthorID
		c.AuthorID = &id
	}
	if !tc.CreatedAt.IsZero() {
		c.CreatedAt = tc.CreatedAt.UTC().Format(createdAtLayout)
	}
	if len(tc.Attachments) > 0 {
		c.Attachments = make([]entity.Attachment, 0, len(tc.Attachments))
		for _, a := range tc.Attachments {
			c.Attachments = append(c.Attachments, entity.Attachment{
				ContentURL: a.ContentURL,
				FileName:   a.FileName,
			})
		}
	}
	return c
}

func userToEntity(u gozendesk.User, id int64) *entity.AuthorRecord {
	if u.ID != 0 {
		id = u.ID
	}
	return &entity.AuthorRecord{
		ID:   id,
		Name: u.Name,
		Role: entity.Role(u.Role),
	}
}
