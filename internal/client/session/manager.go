package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"estimapp/internal/domain"
)

// Claves persistidas por el manager. authToken y user viven y mueren juntos.
const (
	KeyAuthToken    = "authToken"
	KeyUser         = "user"
	KeyPendingEmail = "pendingEmail"
)

// Manager mantiene la sesion local del cliente sobre un Store inyectable.
type Manager struct {
	mu    sync.Mutex
	store Store

	token string
	user  *domain.User
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Establish persiste token y usuario de forma atomica y descarta el
// pendingEmail del flujo de registro.
func (m *Manager) Establish(token string, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.Set(KeyAuthToken, token); err != nil {
		return err
	}
	if err := m.store.Set(KeyUser, string(raw)); err != nil {
		return err
	}
	if err := m.store.Delete(KeyPendingEmail); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}

	m.token = token
	m.user = &user
	return nil
}

// Clear borra las tres claves durables y el estado en memoria.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range []string{KeyAuthToken, KeyUser, KeyPendingEmail} {
		if err := m.store.Delete(key); err != nil && !errors.Is(err, ErrKeyNotFound) {
			return err
		}
	}
	m.token = ""
	m.user = nil
	return nil
}

// Load rehidrata la sesion desde el store. Un JWT ya vencido se descarta
// junto con el usuario guardado; el cliente no valida la firma porque no
// posee el secreto.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Get(KeyAuthToken)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if tokenExpired(token) {
		for _, key := range []string{KeyAuthToken, KeyUser} {
			if err := m.store.Delete(key); err != nil && !errors.Is(err, ErrKeyNotFound) {
				return err
			}
		}
		return nil
	}

	rawUser, err := m.store.Get(KeyUser)
	if errors.Is(err, ErrKeyNotFound) {
		// Sesion a medias: sin usuario no hay sesion.
		return m.store.Delete(KeyAuthToken)
	}
	if err != nil {
		return err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return fmt.Errorf("decode stored user: %w", err)
	}

	m.token = token
	m.user = &user
	return nil
}

// Token implementa api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User devuelve el usuario de la sesion activa.
func (m *Manager) User() (domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return domain.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated indica si hay token y usuario presentes.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil
}

// SetPendingEmail guarda el email pendiente de verificacion.
func (m *Manager) SetPendingEmail(email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Set(KeyPendingEmail, email)
}

// PendingEmail devuelve el email pendiente, o vacio si no hay.
func (m *Manager) PendingEmail() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	email, err := m.store.Get(KeyPendingEmail)
	if err != nil {
		return ""
	}
	return email
}

// ClearPendingEmail borra solo la clave pendingEmail.
func (m *Manager) ClearPendingEmail() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(KeyPendingEmail); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	return nil
}

// tokenExpired inspecciona el claim exp sin verificar la firma. Tokens que
// no parsean se tratan como vencidos.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
