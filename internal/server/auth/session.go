package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dmitrijs2005/racelog/internal/common"
)

type session struct {
	userID  string
	expires time.Time
}

// SessionManager issues opaque session tokens and resolves them back to
// user ids. Only the SHA-256 hash of a token is kept server-side. Sessions
// live in memory: a server restart signs everyone out, which is acceptable
// for a single-user desktop deployment.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
}

// TTL returns the configured session lifetime, used for cookie expiry.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Create starts a session for userID and returns the raw token for the
// cookie.
func (m *SessionManager) Create(userID string) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[hashToken(token)] = session{
		userID:  userID,
		expires: time.Now().Add(m.ttl),
	}
	return token, nil
}

// Verify resolves a token to the owning user id. Expired sessions are
// dropped on sight.
func (m *SessionManager) Verify(token string) (string, error) {
	if token == "" {
		return "", common.ErrInvalidToken
	}
	key := hashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return "", common.ErrInvalidToken
	}
	if time.Now().After(s.expires) {
		delete(m.sessions, key)
		return "", common.ErrInvalidToken
	}
	return s.userID, nil
}

// Destroy ends the session for the given token, if any.
func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, hashToken(token))
}

// DestroyAll ends every session of the user. Called on account deletion
// and password change.
func (m *SessionManager) DestroyAll(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.sessions {
		if s.userID == userID {
			delete(m.sessions, key)
		}
	}
}
