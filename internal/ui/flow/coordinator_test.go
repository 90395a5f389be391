package flow

import (
	"fmt"
	"testing"

	apperrors "aquaview/internal/platform/errors"
)

const (
	viewTrend     View = "trend"
	viewAnomalies View = "anomalies"
)

func TestHappyPathLoadsPayload(t *testing.T) {
	t.Parallel()

	c := New()
	ticket := c.Begin(viewTrend)
	if !c.Loading() {
		t.Fatal("not loading after Begin")
	}

	if applied := c.Resolve(ticket, "trend-data", nil); !applied {
		t.Fatal("current ticket was dropped")
	}
	if c.State() != StateLoaded || c.Payload() != "trend-data" {
		t.Fatalf("state=%v payload=%v", c.State(), c.Payload())
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	t.Parallel()

	c := New()
	trendTicket := c.Begin(viewTrend)
	anomaliesTicket := c.Begin(viewAnomalies)

	if applied := c.Resolve(anomaliesTicket, "anomaly-data", nil); !applied {
		t.Fatal("newest ticket was dropped")
	}
	if applied := c.Resolve(trendTicket, "trend-data", nil); applied {
		t.Fatal("superseded ticket was applied")
	}
	if c.View() != viewAnomalies || c.Payload() != "anomaly-data" {
		t.Fatalf("view=%v payload=%v, want anomalies data intact", c.View(), c.Payload())
	}
}

func TestStaleFailureCannotOverwriteLoadedView(t *testing.T) {
	t.Parallel()

	c := New()
	trendTicket := c.Begin(viewTrend)
	anomaliesTicket := c.Begin(viewAnomalies)

	if applied := c.Resolve(anomaliesTicket, "anomaly-data", nil); !applied {
		t.Fatal("newest ticket was dropped")
	}
	if applied := c.Resolve(trendTicket, nil, fmt.Errorf("boom")); applied {
		t.Fatal("stale failure was applied")
	}
	if c.State() != StateLoaded {
		t.Fatalf("state=%v, want Loaded", c.State())
	}
}

func TestViewSwitchClearsPayloadImmediately(t *testing.T) {
	t.Parallel()

	c := New()
	ticket := c.Begin(viewTrend)
	c.Resolve(ticket, "trend-data", nil)

	c.Begin(viewAnomalies)
	if c.Payload() != nil {
		t.Fatalf("payload survived view switch: %v", c.Payload())
	}
	if !c.Loading() {
		t.Fatal("not loading after switching views")
	}
}

func TestNoDataIsItsOwnState(t *testing.T) {
	t.Parallel()

	c := New()
	ticket := c.Begin(viewTrend)
	if applied := c.Resolve(ticket, nil, apperrors.ErrNoData); !applied {
		t.Fatal("current ticket was dropped")
	}
	if c.State() != StateNoData {
		t.Fatalf("state=%v, want NoData", c.State())
	}
	if c.Message() != "" {
		t.Fatalf("NoData carries an error message: %q", c.Message())
	}
}

func TestFailureMessagesAreReadable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", apperrors.ErrUnauthorized, "session expired, sign in again"},
		{"unavailable", apperrors.ErrServerUnavailable, "backend unreachable, retry in a moment"},
		{"validation", fmt.Errorf("%w: pH min exceeds max", apperrors.ErrValidation), "validation rejected: pH min exceeds max"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := New()
			ticket := c.Begin(viewTrend)
			c.Resolve(ticket, nil, tc.err)
			if c.State() != StateFailed {
				t.Fatalf("state=%v, want Failed", c.State())
			}
			if c.Message() != tc.want {
				t.Fatalf("message=%q, want %q", c.Message(), tc.want)
			}
		})
	}
}

func TestRejectLocalFailsWithoutTicket(t *testing.T) {
	t.Parallel()

	c := New()
	staleTicket := c.Begin(viewTrend)

	c.RejectLocal(viewTrend, "a target hub must be selected")
	if c.State() != StateFailed || c.Message() != "a target hub must be selected" {
		t.Fatalf("state=%v message=%q", c.State(), c.Message())
	}

	if applied := c.Resolve(staleTicket, "trend-data", nil); applied {
		t.Fatal("in-flight fetch overwrote a local rejection")
	}
}

func TestTerminalStatesAreReEnterable(t *testing.T) {
	t.Parallel()

	c := New()
	ticket := c.Begin(viewTrend)
	c.Resolve(ticket, nil, fmt.Errorf("boom"))
	if c.State() != StateFailed {
		t.Fatalf("state=%v, want Failed", c.State())
	}

	retry := c.Begin(viewTrend)
	if !c.Loading() {
		t.Fatal("retry did not re-enter Loading")
	}
	if applied := c.Resolve(retry, "trend-data", nil); !applied {
		t.Fatal("retry ticket was dropped")
	}
	if c.State() != StateLoaded {
		t.Fatalf("state=%v, want Loaded after retry", c.State())
	}
}

func TestResetInvalidatesInFlightTicket(t *testing.T) {
	t.Parallel()

	c := New()
	ticket := c.Begin(viewTrend)
	c.Reset()

	if applied := c.Resolve(ticket, "trend-data", nil); applied {
		t.Fatal("resolved a ticket issued before Reset")
	}
	if c.State() != StateIdle || c.Payload() != nil {
		t.Fatalf("state=%v payload=%v after Reset", c.State(), c.Payload())
	}
}
