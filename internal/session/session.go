package session

import (
	"time"

	"github.com/sekolahku/pelajar-gateway/internal/model"
)

// Session is one in-progress student import. It carries the reference
// data snapshot fetched at creation time and the rows parsed from the
// uploaded spreadsheet.
//
// Store methods return Session by value. The Rows slice is shared with
// the store but always replaced wholesale on mutation, so callers must
// treat it as read-only.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	// Reference is nil when the upstream fetch failed at creation;
	// RefError then holds the reason and row validation skips the
	// reference checks.
	Reference *model.ReferenceData
	RefError  string

	Rows       []model.ImportRow
	Result     *model.ImportResult
	Submitting bool
}

// ValidCount returns how many parsed rows passed validation.
func (s *Session) ValidCount() int {
	count := 0
	for i := range s.Rows {
		if s.Rows[i].IsValid {
			count++
		}
	}
	return count
}

func (s *Session) expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
