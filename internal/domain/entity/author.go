package entity

// Role is the Zendesk user role.
type Role string

const (
	RoleEndUser Role = "end-user"
	RoleAgent   Role = "agent"
	RoleAdmin   Role = "admin"
)

// IsStaff returns true for agents and administrators.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// AuthorRecord is a user record fetched from the ticketing backend.
type AuthorRecord struct {
	ID   int64
	Name string
	Role Role
}

// ResolutionKind tags how a comment author was identified.
type ResolutionKind string

const (
	// ResolutionAgent means the author is a staff member shown under their own name.
	ResolutionAgent ResolutionKind = "agent"

	// ResolutionAssumedRequester means the author is shown as the ticket requester.
	ResolutionAssumedRequester ResolutionKind = "requester"
)

// AuthorResolution is the outcome of DecideAuthor.
// Name is only set for ResolutionAgent.
type AuthorResolution struct {
	Kind ResolutionKind
	Name string
}

// Agent returns a resolution naming a staff member.
func Agent(name string) AuthorResolution {
	return AuthorResolution{Kind: ResolutionAgent, Name: name}
}

// AssumedRequester returns a resolution attributing the comment to the requester.
func AssumedRequester() AuthorResolution {
	return AuthorResolution{Kind: ResolutionAssumedRequester}
}

// DecideAuthor applies the role-aware attribution policy to a fetched user record.
// A nil record stands for a failed lookup. Only staff with a usable name keep
// their own identity; everyone else is assumed to be the requester.
func DecideAuthor(record *AuthorRecord) AuthorResolution {
	if record == nil {
		return AssumedRequester()
	}
	if record.Role.IsStaff() && record.Name != "" {
		return Agent(record.Name)
	}
	return AssumedRequester()
}

// ResolvedAuthor is the display identity handed to the message builder.
type ResolvedAuthor struct {
	Name string
	Kind ResolutionKind
}

// IsStaff returns true if the author was resolved as a staff member.
func (a ResolvedAuthor) IsStaff() bool {
	return a.Kind == ResolutionAgent
}
