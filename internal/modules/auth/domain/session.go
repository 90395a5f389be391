package domain

import (
	"fmt"
	"time"
)

// Session is the authenticated identity for one municipal corporation.
// Token and MCCode travel together: a session with only one of them is
// corrupt and must be treated as unauthenticated.
type Session struct {
	Token   string    `json:"token"`
	MCCode  string    `json:"mc_code"`
	MCName  string    `json:"mc_name"`
	SavedAt time.Time `json:"saved_at"`
}

func (s Session) Active() bool {
	return s.Token != "" && s.MCCode != ""
}

func (s Session) Validate() error {
	if (s.Token == "") != (s.MCCode == "") {
		return fmt.Errorf("session token and mc code must be set together")
	}
	return nil
}

// Municipal is login reference data: one selectable corporation.
type Municipal struct {
	Code string
	Name string
}

// LoginResult is what the backend hands back on a successful login.
type LoginResult struct {
	Token   string
	MCCode  string
	MCName  string
	Message string
}
