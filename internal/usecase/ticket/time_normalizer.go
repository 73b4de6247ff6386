package ticket

import "time"

const (
	// backendTimeLayout is the exact timestamp format returned by Zendesk.
	backendTimeLayout = "2006-01-02T15:04:05Z"

	// displayTimeLayout renders as DD-MM-YYYY HH:MM.
	displayTimeLayout = "02-01-2006 15:04"
)

// TimeNormalizer converts backend UTC timestamps to a fixed display timezone.
type TimeNormalizer struct {
	loc *time.Location
}

// NewTimeNormalizer creates a normalizer for loc. A nil loc means UTC.
func NewTimeNormalizer(loc *time.Location) *TimeNormalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeNormalizer{loc: loc}
}

// ToLocalDisplay formats s in the target timezone.
// Input not in exactly backendTimeLayout is returned unchanged.
func (n *TimeNormalizer) ToLocalDisplay(s string) string {
	// time.Parse accepts fractional seconds even when the layout has none.
	if len(s) != len(backendTimeLayout) {
		return s
	}
	t, err := time.Parse(backendTimeLayout, s)
	if err != nil {
		return s
	}
	return t.In(n.loc).Format(displayTimeLayout)
}

// Location returns the target timezone.
func (n *TimeNormalizer) Location() *time.Location {
	return n.loc
}
