package flow

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"estimapp/internal/domain"
)

// Etapas del asistente de registro, estrictamente lineales.
const (
	StageRole     = 1
	StageInfo     = 2
	StageVerify   = 3
	StagePassword = 4
	StageDone     = 5
)

// PasswordStrength clasifica la password de forma orientativa; nunca
// bloquea el envio por si sola.
type PasswordStrength string

const (
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// phonePattern acepta digitos, espacios y signos comunes; el telefono es
// opcional.
var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

const minPasswordLength = 8

// SignupStarter dispara el pre-registro al pasar de la etapa 2 a la 3.
type SignupStarter interface {
	StartSignup(ctx context.Context, draft domain.SignupDraft) error
}

// SignupWizard guia el registro en cuatro etapas. Los errores de validacion
// se reportan por campo; avanzar queda bloqueado hasta resolverlos.
type SignupWizard struct {
	starter SignupStarter

	stage  int
	draft  domain.SignupDraft
	errors map[string]string

	otp *OTPMachine
}

func NewSignupWizard(starter SignupStarter) *SignupWizard {
	return &SignupWizard{
		starter: starter,
		stage:   StageRole,
		errors:  map[string]string{},
		otp:     NewOTPMachine(true),
	}
}

// Stage devuelve la etapa actual.
func (w *SignupWizard) Stage() int { return w.stage }

// Draft devuelve una copia del borrador acumulado.
func (w *SignupWizard) Draft() domain.SignupDraft { return w.draft }

// FieldError devuelve el error de validacion del campo, o vacio.
func (w *SignupWizard) FieldError(field string) string { return w.errors[field] }

// OTP expone la maquina de codigo de la etapa de verificacion.
func (w *SignupWizard) OTP() *OTPMachine { return w.otp }

// SetRole fija el rol elegido en la etapa 1.
func (w *SignupWizard) SetRole(role domain.Role) {
	w.draft.Role = role
}

// SetInfo carga los datos personales de la etapa 2.
func (w *SignupWizard) SetInfo(firstName, lastName, email, phone string) {
	w.draft.FirstName = strings.TrimSpace(firstName)
	w.draft.LastName = strings.TrimSpace(lastName)
	w.draft.Email = strings.TrimSpace(email)
	w.draft.Phone = strings.TrimSpace(phone)
}

// SetPassword carga la password y su confirmacion en la etapa 4.
func (w *SignupWizard) SetPassword(password, confirm string) {
	w.draft.Password = password
	w.draft.ConfirmPassword = confirm
}

// Next valida la etapa actual y avanza una posicion. El paso 2 -> 3 dispara
// el pre-registro en el servidor y no avanza si la llamada falla.
func (w *SignupWizard) Next(ctx context.Context) bool {
	w.errors = map[string]string{}

	switch w.stage {
	case StageRole:
		if !domain.IsSignupRole(w.draft.Role) {
			w.errors["role"] = "select a role"
			return false
		}
		w.stage = StageInfo
		return true

	case StageInfo:
		if !w.validateInfo() {
			return false
		}
		if w.starter != nil {
			if err := w.starter.StartSignup(ctx, w.draft); err != nil {
				w.errors["form"] = err.Error()
				return false
			}
		}
		w.stage = StageVerify
		w.otp.EnterOTP()
		return true

	case StageVerify:
		if !w.otp.Complete() {
			w.errors["otp"] = "enter the 6-digit code"
			return false
		}
		w.stage = StagePassword
		return true

	case StagePassword:
		if !w.validatePassword() {
			return false
		}
		w.stage = StageDone
		return true
	}
	return false
}

// Done indica que las cuatro etapas se superaron y el borrador esta listo
// para completar el registro.
func (w *SignupWizard) Done() bool { return w.stage == StageDone }

func (w *SignupWizard) validateInfo() bool {
	if w.draft.FirstName == "" {
		w.errors["firstName"] = "first name is required"
	}
	if w.draft.LastName == "" {
		w.errors["lastName"] = "last name is required"
	}
	if w.draft.Email == "" {
		w.errors["email"] = "email is required"
	} else if !emailPattern.MatchString(w.draft.Email) {
		w.errors["email"] = "enter a valid email"
	}
	if w.draft.Phone != "" && !phonePattern.MatchString(w.draft.Phone) {
		w.errors["phone"] = "enter a valid phone"
	}
	return len(w.errors) == 0
}

func (w *SignupWizard) validatePassword() bool {
	if len(w.draft.Password) < minPasswordLength {
		w.errors["password"] = "password must be at least 8 characters"
	}
	if w.draft.ConfirmPassword != w.draft.Password {
		w.errors["confirmPassword"] = "passwords do not match"
	}
	return len(w.errors) == 0
}

// Verified marca la etapa 3 como superada tras la confirmacion del codigo.
func (w *SignupWizard) Verified() {
	if w.stage == StageVerify {
		w.otp.Authenticated()
		w.stage = StagePassword
	}
}

// Reset vuelve a la etapa 1 y descarta el borrador y los errores.
func (w *SignupWizard) Reset() {
	w.stage = StageRole
	w.draft = domain.SignupDraft{}
	w.errors = map[string]string{}
	w.otp = NewOTPMachine(true)
}

// PasswordStrengthOf cuenta criterios cumplidos: largo >= 8, largo >= 12,
// minusculas, mayusculas, digitos y simbolos. 0-2 weak, 3-4 medium,
// 5-6 strong.
func PasswordStrengthOf(password string) PasswordStrength {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}
	switch {
	case score <= 2:
		return StrengthWeak
	case score <= 4:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}
