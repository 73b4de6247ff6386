package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideAuthor(t *testing.T) {
	tests := []struct {
		name     string
		record   *AuthorRecord
		expected AuthorResolution
	}{
		{
			name:     "failed lookup assumes requester",
			record:   nil,
			expected: AssumedRequester(),
		},
		{
			name:     "agent keeps own name",
			record:   &AuthorRecord{ID: 1, Name: "Budi", Role: RoleAgent},
			expected: Agent("Budi"),
		},
		{
			name:     "admin keeps own name",
			record:   &AuthorRecord{ID: 2, Name: "Sari", Role: RoleAdmin},
			expected: Agent("Sari"),
		},
		{
			name:     "end user collapses to requester",
			record:   &AuthorRecord{ID: 3, Name: "Someone Else", Role: RoleEndUser},
			expected: AssumedRequester(),
		},
		{
			name:     "unknown role collapses to requester",
			record:   &AuthorRecord{ID: 4, Name: "Bot", Role: Role("light-agent")},
			expected: AssumedRequester(),
		},
		{
			name:     "staff without name collapses to requester",
			record:   &AuthorRecord{ID: 5, Role: RoleAgent},
			expected: AssumedRequester(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecideAuthor(tt.record))
		})
	}
}

func TestAuthorKey(t *testing.T) {
	id := int64(7)
	assert.Equal(t, "7", AuthorKey(&id))
	assert.Equal(t, "null", AuthorKey(nil))

	c := &Comment{}
	assert.Equal(t, "null", c.AuthorKey())
}

func TestResolvedAuthor_IsStaff(t *testing.T) {
	assert.True(t, ResolvedAuthor{Name: "Budi", Kind: ResolutionAgent}.IsStaff())
	assert.False(t, ResolvedAuthor{Name: "Ana", Kind: ResolutionAssumedRequester}.IsStaff())
}
