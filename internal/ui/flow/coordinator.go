// Package flow serialises a screen's data fetches. Each screen owns one
// Coordinator; every fetch gets a ticket, and only the newest ticket may
// publish its result. Responses from superseded fetches are dropped, so a
// fast view switch never paints data from the view left behind.
package flow

import (
	"errors"

	apperrors "aquaview/internal/platform/errors"
)

// View names one data panel within a screen, e.g. "trend" or "anomalies".
type View string

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
	StateNoData
)

// Ticket binds an in-flight fetch to the coordinator generation that
// issued it. The zero Ticket never resolves.
type Ticket struct {
	View View
	Seq  uint64
}

// Coordinator tracks which view is active and which fetch is allowed to
// complete. At most one view's payload is held at a time.
type Coordinator struct {
	state   State
	view    View
	seq     uint64
	payload any
	message string
}

func New() *Coordinator {
	return &Coordinator{state: StateIdle}
}

// Begin starts a fetch for view: the previous payload is cleared
// immediately and any in-flight fetch is invalidated by the sequence bump.
func (c *Coordinator) Begin(view View) Ticket {
	c.seq++
	c.state = StateLoading
	c.view = view
	c.payload = nil
	c.message = ""
	return Ticket{View: view, Seq: c.seq}
}

// Resolve applies a fetch result. It reports false, leaving all state
// untouched, when the ticket is no longer the current one.
func (c *Coordinator) Resolve(ticket Ticket, payload any, err error) bool {
	if ticket.Seq != c.seq || ticket.View != c.view {
		return false
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNoData) {
			c.state = StateNoData
			c.payload = nil
			c.message = ""
			return true
		}
		c.state = StateFailed
		c.payload = nil
		c.message = failMessage(err)
		return true
	}
	c.state = StateLoaded
	c.payload = payload
	c.message = ""
	return true
}

// RejectLocal enters Failed for view without issuing a ticket; used when
// input validation fails before any request is built.
func (c *Coordinator) RejectLocal(view View, msg string) {
	c.seq++
	c.state = StateFailed
	c.view = view
	c.payload = nil
	c.message = msg
}

// Reset returns to Idle and invalidates any in-flight ticket. The route
// guard calls this when a session is torn down mid-fetch.
func (c *Coordinator) Reset() {
	c.seq++
	c.state = StateIdle
	c.view = ""
	c.payload = nil
	c.message = ""
}

func (c *Coordinator) State() State    { return c.state }
func (c *Coordinator) View() View      { return c.view }
func (c *Coordinator) Payload() any    { return c.payload }
func (c *Coordinator) Message() string { return c.message }

func (c *Coordinator) Loading() bool { return c.state == StateLoading }

func failMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "session expired, sign in again"
	case errors.Is(err, apperrors.ErrServerUnavailable):
		return "backend unreachable, retry in a moment"
	default:
		return err.Error()
	}
}
