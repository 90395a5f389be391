package out

import (
	"context"

	"aquaview/internal/modules/auth/domain"
)

// SessionStore persists the session triple. Save stores all fields
// atomically, Load reports ErrNoSession when nothing (or a partial
// triple) is stored, Clear is idempotent.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}

// LoginGateway talks to the backend's public authentication routes.
type LoginGateway interface {
	Login(ctx context.Context, username, password, mcCode string) (domain.LoginResult, error)
	MunicipalList(ctx context.Context) ([]domain.Municipal, error)
}
