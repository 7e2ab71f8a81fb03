package domain

import "time"

// Role clasifica el nivel de acceso de un usuario.
type Role string

const (
	RoleEstimator Role = "ESTIMATOR"
	RoleAdmin     Role = "ADMIN"
	RoleViewer    Role = "VIEWER"
)

// IsSignupRole indica si el rol puede elegirse durante el registro.
func IsSignupRole(r Role) bool {
	return r == RoleEstimator || r == RoleViewer
}

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Phone           string     `json:"phone,omitempty"`
	Role            Role       `json:"role"`
	AuthProvider    string     `json:"auth_provider,omitempty"`
	AuthSubject     string     `json:"-"`
	PasswordHash    string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	OtpCodeHash     string     `json:"-"`
	OtpExpiresAt    *time.Time `json:"otp_expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SignupDraft acumula los datos del asistente de registro; no se persiste
// hasta el envio final.
type SignupDraft struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Role            Role   `json:"role"`
	Password        string `json:"-"`
	ConfirmPassword string `json:"-"`
}
