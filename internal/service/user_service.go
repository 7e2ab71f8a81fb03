package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"estimapp/internal/domain"
	"estimapp/internal/email"
	"estimapp/internal/repository"
)

// UserService coordina el ciclo de vida de cuentas: registro por etapas,
// verificacion OTP, login con password y OAuth.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	otpLimiter  OTPRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, otpLimiter OTPRateLimiter) *UserService {
	if otpLimiter == nil {
		otpLimiter = NewOTPRateLimiter(otpTTL, 3)
	}
	return &UserService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		otpLimiter:  otpLimiter,
	}
}

// SignupInput son los datos de pre-registro recogidos por el asistente.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      domain.Role
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPNotRequested    = errors.New("otp not requested")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPInvalid         = errors.New("otp invalid")
	ErrOAuthInvalid       = errors.New("oauth data invalid")
	ErrEmailSendFailure   = errors.New("email send failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrRoleInvalid        = errors.New("role not allowed for signup")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrPasswordTooShort   = errors.New("password too short")
)

const (
	otpTTL            = 10 * time.Minute
	minPasswordLength = 8
)

// StartSignup pre-registra la cuenta y envia el OTP de verificacion. No se
// crea sesion: el registro siempre continua con verify + complete.
func (s *UserService) StartSignup(ctx context.Context, input SignupInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if !domain.IsSignupRole(input.Role) {
		return domain.User{}, ErrRoleInvalid
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
		user = domain.User{
			ID:        uuid.NewString(),
			Email:     emailAddr,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
			Phone:     strings.TrimSpace(input.Phone),
			Role:      input.Role,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return domain.User{}, err
		}
	}

	code, hash, expiresAt, err := generateOTP()
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.UpdateOTP(ctx, user.ID, hash, expiresAt); err != nil {
		return domain.User{}, err
	}

	if err := s.sendOTP(ctx, emailAddr, code, expiresAt); err != nil {
		return domain.User{}, err
	}

	user.OtpExpiresAt = &expiresAt
	return user, nil
}

// RequestOTP reenvia un codigo a una cuenta ya registrada.
func (s *UserService) RequestOTP(ctx context.Context, emailAddr string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	code, hash, expiresAt, err := generateOTP()
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.UpdateOTP(ctx, user.ID, hash, expiresAt); err != nil {
		return domain.User{}, err
	}

	if err := s.sendOTP(ctx, emailAddr, code, expiresAt); err != nil {
		return domain.User{}, err
	}

	user.OtpExpiresAt = &expiresAt
	return user, nil
}

// VerifyOTP valida el codigo y marca el correo como verificado.
func (s *UserService) VerifyOTP(ctx context.Context, emailAddr, code string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if !isValidOTPCode(code) {
		return domain.User{}, ErrOTPInvalid
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if user.OtpCodeHash == "" || user.OtpExpiresAt == nil {
		return domain.User{}, ErrOTPNotRequested
	}
	if time.Now().UTC().After(*user.OtpExpiresAt) {
		return domain.User{}, ErrOTPExpired
	}
	if !verifyOTP(code, user.OtpCodeHash) {
		return domain.User{}, ErrOTPInvalid
	}

	verifiedAt := time.Now().UTC()
	if err := s.users.VerifyEmail(ctx, user.ID, verifiedAt); err != nil {
		return domain.User{}, err
	}

	user.EmailVerifiedAt = &verifiedAt
	user.OtpCodeHash = ""
	user.OtpExpiresAt = nil
	return user, nil
}

// CompleteSignup fija la password de una cuenta verificada y cierra el
// registro.
func (s *UserService) CompleteSignup(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if user.EmailVerifiedAt == nil {
		return domain.User{}, ErrEmailNotVerified
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hashBytes)); err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = string(hashBytes)
	return user, nil
}

// Authenticate valida credenciales de login. Una cuenta sin verificar
// devuelve ErrEmailNotVerified para que el caller derive al flujo OTP.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.EmailVerifiedAt == nil {
		return domain.User{}, ErrEmailNotVerified
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

type OAuthInput struct {
	Provider  string
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// UpsertOAuthUser vincula o crea la cuenta a partir de una identidad OAuth
// ya validada aguas arriba.
func (s *UserService) UpsertOAuthUser(ctx context.Context, input OAuthInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	subject := strings.TrimSpace(input.Subject)
	emailAddr := normalizeEmail(input.Email)

	if provider == "" || subject == "" {
		return domain.User{}, ErrOAuthInvalid
	}

	user, err := s.users.GetByAuth(ctx, provider, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	if emailAddr != "" {
		existing, err := s.users.GetByEmail(ctx, emailAddr)
		if err == nil {
			if err := s.users.LinkOAuth(ctx, existing.ID, provider, subject); err != nil {
				return domain.User{}, err
			}
			verifiedAt := time.Now().UTC()
			if err := s.users.VerifyEmail(ctx, existing.ID, verifiedAt); err != nil {
				return domain.User{}, err
			}
			existing.AuthProvider = provider
			existing.AuthSubject = subject
			existing.EmailVerifiedAt = &verifiedAt
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
	}

	verifiedAt := time.Now().UTC()
	user = domain.User{
		ID:              uuid.NewString(),
		Email:           emailAddr,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Role:            domain.RoleEstimator,
		AuthProvider:    provider,
		AuthSubject:     subject,
		EmailVerifiedAt: &verifiedAt,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) sendOTP(ctx context.Context, toEmail, code string, expiresAt time.Time) error {
	if s.emailSender == nil {
		return ErrEmailSendFailure
	}
	if err := s.emailSender.SendVerificationOTP(ctx, toEmail, code, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send verification otp failed", zap.Error(err), zap.String("email", toEmail))
		}
		return ErrEmailSendFailure
	}
	return nil
}

func generateOTP() (string, string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", time.Time{}, err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", time.Time{}, err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])

	expiresAt := time.Now().UTC().Add(otpTTL)
	return code, saltStr + ":" + hash, expiresAt, nil
}

func verifyOTP(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// OTPRateLimiter limita la frecuencia de solicitudes de OTP por clave.
type OTPRateLimiter interface {
	Allow(key string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewOTPRateLimiter crea un rate limiter en memoria.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *otpRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
