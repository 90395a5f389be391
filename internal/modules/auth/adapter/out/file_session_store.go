package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"aquaview/internal/modules/auth/domain"
	authout "aquaview/internal/modules/auth/port/out"
	apperrors "aquaview/internal/platform/errors"
)

// FileSessionStore keeps the session triple in a JSON file under the state
// dir so it survives restarts. The write is staged through a temp file and
// renamed, so readers observe the full triple or none of it.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Save(_ context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Load(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	session := domain.Session{}
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if !session.Active() {
		return domain.Session{}, apperrors.ErrNoSession
	}
	return session, nil
}

func (s *FileSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token lets the store double as the gateway's TokenSource. Reading the
// file on every call means a cleared session is honoured immediately.
func (s *FileSessionStore) Token() string {
	session, err := s.Load(context.Background())
	if err != nil {
		return ""
	}
	return session.Token
}

var _ authout.SessionStore = (*FileSessionStore)(nil)
