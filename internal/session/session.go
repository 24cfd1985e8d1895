package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joelyk/maison-du-parfum/pkg/util"
)

// Data is the per-visitor bag. The cart lives in its own repository keyed by the same id.
type Data struct {
	UserID        *uint  `json:"user_id,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
	UserFirstName string `json:"user_first_name,omitempty"`
	Admin         bool   `json:"admin,omitempty"`
}

func (d *Data) SetUser(id uint, email, firstName string) {
	d.UserID = &id
	d.UserEmail = email
	d.UserFirstName = firstName
}

// ClearUser drops the customer identity and keeps everything else.
func (d *Data) ClearUser() {
	d.UserID = nil
	d.UserEmail = ""
	d.UserFirstName = ""
}

func (d *Data) Authenticated() bool {
	return d != nil && d.UserID != nil
}

func (d *Data) IsAdmin() bool {
	return d != nil && d.Admin
}

// Store persists session data by session id.
type Store interface {
	Load(ctx context.Context, sid string) (*Data, error)
	Save(ctx context.Context, sid string, data *Data) error
	Delete(ctx context.Context, sid string) error
}

// Manager issues session ids and signs them into cookie values.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a fresh session id and its signed cookie value.
func (m *Manager) Issue() (sid, token string, err error) {
	sid = uuid.NewString()
	token, err = util.GenerateSessionToken(sid, m.secret, m.ttl)
	if err != nil {
		return "", "", err
	}
	return sid, token, nil
}

// Resolve returns the session id carried by a cookie value.
func (m *Manager) Resolve(token string) (string, error) {
	if token == "" {
		return "", util.ErrInvalidToken
	}
	return util.ValidateSessionToken(token, m.secret)
}

// Refresh re-signs a valid cookie value once less than half of its lifetime remains,
// so active visitors keep the session the stores already slide on save.
func (m *Manager) Refresh(token string) (string, bool) {
	claims, err := util.ParseSessionToken(token, m.secret)
	if err != nil || claims.ExpiresAt == nil {
		return "", false
	}
	if time.Until(claims.ExpiresAt.Time) > m.ttl/2 {
		return "", false
	}
	fresh, err := util.GenerateSessionToken(claims.SessionID, m.secret, m.ttl)
	if err != nil {
		return "", false
	}
	return fresh, true
}

// Load returns the stored data, or an empty bag for unknown sessions.
func (m *Manager) Load(ctx context.Context, sid string) (*Data, error) {
	data, err := m.store.Load(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *Manager) Save(ctx context.Context, sid string, data *Data) error {
	return m.store.Save(ctx, sid, data)
}

func (m *Manager) Destroy(ctx context.Context, sid string) error {
	return m.store.Delete(ctx, sid)
}

var ErrNotFound = errors.New("session not found")
