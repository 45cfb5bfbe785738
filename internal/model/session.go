package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusClosed SessionStatus = "closed"
)

type Session struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	CreatedBy uuid.UUID
	Name      string
	Status    SessionStatus
	CreatedAt time.Time
	ClosedAt  *time.Time
}

func (s Session) IsActive() bool {
	return s.Status == StatusActive
}

func (s Session) IsClosed() bool {
	return s.Status == StatusClosed
}

// CanAcceptVotes reports whether the ledger may take new or changed votes.
func (s Session) CanAcceptVotes() bool {
	return s.IsActive()
}

// SessionDetails is a session together with its full vote history.
type SessionDetails struct {
	Session Session
	Votes   []Vote
}

// DefaultSessionName returns name if it is not blank, otherwise
// "Session <M/D/YYYY>" of the given creation time.
func DefaultSessionName(name string, createdAt time.Time) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return "Session " + createdAt.Format("1/2/2006")
}
