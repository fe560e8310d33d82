package reminder

import (
	"context"
	"time"
)

// AuthorizationStatus is the notification authority's answer to "may this
// app post notifications".
type AuthorizationStatus int

const (
	StatusNotDetermined AuthorizationStatus = iota
	StatusDenied
	StatusAuthorized
	StatusProvisional
	StatusEphemeral
)

func (s AuthorizationStatus) String() string {
	switch s {
	case StatusNotDetermined:
		return "not_determined"
	case StatusDenied:
		return "denied"
	case StatusAuthorized:
		return "authorized"
	case StatusProvisional:
		return "provisional"
	case StatusEphemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

// ParseAuthorizationStatus is the inverse of AuthorizationStatus.String.
// Unrecognised values map to StatusNotDetermined.
func ParseAuthorizationStatus(s string) AuthorizationStatus {
	switch s {
	case "denied":
		return StatusDenied
	case "authorized":
		return StatusAuthorized
	case "provisional":
		return StatusProvisional
	case "ephemeral":
		return StatusEphemeral
	default:
		return StatusNotDetermined
	}
}

// AuthorizationOptions is a set of notification capabilities to request.
type AuthorizationOptions uint

const (
	OptionAlert AuthorizationOptions = 1 << iota
	OptionSound
	OptionBadge
)

// Content is what a notification shows.
type Content struct {
	Title    string
	Subtitle string
	Sound    bool
}

// CalendarTrigger fires when the wall clock matches Hour:Minute.
type CalendarTrigger struct {
	Hour    int
	Minute  int
	Repeats bool
}

// NextFireAfter returns the first moment strictly after t, in t's
// location, at which the trigger fires.
func (c CalendarTrigger) NextFireAfter(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Request is a pending notification. Adding a request with an ID that is
// already pending replaces it.
type Request struct {
	ID      string
	Content Content
	Trigger CalendarTrigger
}

// Center is the notification authority capability.
type Center interface {
	AuthorizationStatus(ctx context.Context) (AuthorizationStatus, error)
	RequestAuthorization(ctx context.Context, opts AuthorizationOptions) (bool, error)
	Add(ctx context.Context, req Request) error
	RemovePending(ctx context.Context, ids []string) error
}
