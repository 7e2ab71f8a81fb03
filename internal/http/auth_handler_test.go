package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"estimapp/internal/domain"
	"estimapp/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	usersByAuth  map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		usersByAuth:  make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	if user.AuthProvider != "" && user.AuthSubject != "" {
		m.usersByAuth[user.AuthProvider+"|"+user.AuthSubject] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByAuth(_ context.Context, provider, subject string) (domain.User, error) {
	id, ok := m.usersByAuth[provider+"|"+subject]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdateOTP(_ context.Context, id, otpHash string, otpExpiresAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.OtpCodeHash = otpHash
	user.OtpExpiresAt = &otpExpiresAt
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) VerifyEmail(_ context.Context, id string, verifiedAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.EmailVerifiedAt = &verifiedAt
	user.OtpCodeHash = ""
	user.OtpExpiresAt = nil
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) LinkOAuth(_ context.Context, id, provider, subject string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.AuthProvider = provider
	user.AuthSubject = subject
	m.usersByID[id] = user
	m.usersByAuth[provider+"|"+subject] = id
	return nil
}

type mockEmailSender struct {
	lastTo      string
	lastCode    string
	lastExpires time.Time
	err         error
}

func (m *mockEmailSender) SendVerificationOTP(_ context.Context, toEmail string, code string, expiresAt time.Time) error {
	m.lastTo = toEmail
	m.lastCode = code
	m.lastExpires = expiresAt
	return m.err
}

type mockLimiter struct {
	allow bool
}

func (m *mockLimiter) Allow(_ string) bool {
	return m.allow
}

func setupAuthRouter(userSvc *service.UserService, jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(zap.NewNop(), userSvc, jwtSvc)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/start-signup", h.Signup)
	r.POST("/auth/send-otp", h.SendOTP)
	r.POST("/auth/verify-signup", h.VerifyOTP)
	r.POST("/auth/complete-signup", h.CompleteSignup)
	r.POST("/auth/oauth", h.OAuthLogin)
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newTestJWTService() *service.JWTService {
	return service.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestAuthHandlerSignupFlow(t *testing.T) {
	repo := newMockUserRepo()
	sender := &mockEmailSender{}
	svc := service.NewUserService(zap.NewNop(), repo, sender, nil)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/start-signup", map[string]string{
		"firstName": "Ana",
		"lastName":  "Diaz",
		"email":     "ana@example.com",
		"phone":     "+5491155550000",
		"role":      "ESTIMATOR",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if sender.lastTo != "ana@example.com" || sender.lastCode == "" {
		t.Fatalf("expected otp email to be sent")
	}

	rec = performRequest(r, http.MethodPost, "/auth/verify-signup", map[string]string{
		"email": "ana@example.com",
		"otp":   sender.lastCode,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var session struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("invalid session body: %v", err)
	}
	if session.AccessToken == "" || session.User.Email != "ana@example.com" {
		t.Fatalf("expected token and user in session response, got %s", rec.Body.String())
	}

	rec = performRequest(r, http.MethodPost, "/auth/complete-signup", map[string]string{
		"email":    "ana@example.com",
		"password": "secret-12345",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret-12345",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on login, got %d", rec.Code)
	}
}

func TestAuthHandlerSignup_RejectsAdminRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, &mockEmailSender{}, nil)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/start-signup", map[string]string{
		"firstName": "Ana",
		"lastName":  "Diaz",
		"email":     "ana@example.com",
		"role":      "ADMIN",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthHandlerLogin_UnverifiedGetsTypedCode(t *testing.T) {
	repo := newMockUserRepo()
	sender := &mockEmailSender{}
	svc := service.NewUserService(zap.NewNop(), repo, sender, nil)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/start-signup", map[string]string{
		"firstName": "Ana",
		"lastName":  "Diaz",
		"email":     "ana@example.com",
		"role":      "VIEWER",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "whatever-123",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Code != codeNeedsVerification {
		t.Fatalf("expected code %q, got %q", codeNeedsVerification, body.Code)
	}
}

func TestAuthHandlerSendOTP_UnknownUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, &mockEmailSender{}, nil)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/send-otp", map[string]string{
		"email": "missing@example.com",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestAuthHandlerSendOTP_EmailSendFailure(t *testing.T) {
	repo := newMockUserRepo()
	sender := &mockEmailSender{}
	svc := service.NewUserService(zap.NewNop(), repo, sender, nil)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/start-signup", map[string]string{
		"firstName": "Ana",
		"lastName":  "Diaz",
		"email":     "ana@example.com",
		"role":      "ESTIMATOR",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	sender.err = errors.New("smtp down")
	rec = performRequest(r, http.MethodPost, "/auth/send-otp", map[string]string{
		"email": "ana@example.com",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestAuthHandlerSignup_RateLimited(t *testing.T) {
	repo := newMockUserRepo()
	limiter := &mockLimiter{allow: false}
	svc := service.NewUserService(zap.NewNop(), repo, &mockEmailSender{}, limiter)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/start-signup", map[string]string{
		"firstName": "Ana",
		"lastName":  "Diaz",
		"email":     "ana@example.com",
		"role":      "ESTIMATOR",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
}

func TestAuthHandlerOAuthLogin_Success(t *testing.T) {
	repo := newMockUserRepo()
	svc := service.NewUserService(zap.NewNop(), repo, &mockEmailSender{}, nil)
	r := setupAuthRouter(svc, newTestJWTService())

	rec := performRequest(r, http.MethodPost, "/auth/oauth", map[string]string{
		"provider":  "google",
		"subject":   "sub-1",
		"email":     "ana@example.com",
		"firstName": "Ana",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
