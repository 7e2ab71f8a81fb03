package flow

import (
	"context"
	"errors"
	"testing"

	"estimapp/internal/domain"
)

type mockStarter struct {
	err   error
	calls int
	last  domain.SignupDraft
}

func (m *mockStarter) StartSignup(_ context.Context, draft domain.SignupDraft) error {
	m.calls++
	m.last = draft
	return m.err
}

func TestSignupWizardRequiresRoleOnStageOne(t *testing.T) {
	w := NewSignupWizard(&mockStarter{})

	if w.Next(context.Background()) {
		t.Fatalf("expected stage 1 blocked without role")
	}
	if w.FieldError("role") == "" {
		t.Fatalf("expected role error")
	}
	if w.Stage() != StageRole {
		t.Fatalf("expected stage 1, got %d", w.Stage())
	}

	w.SetRole(domain.RoleAdmin)
	if w.Next(context.Background()) {
		t.Fatalf("admin is not a signup role")
	}

	w.SetRole(domain.RoleEstimator)
	if !w.Next(context.Background()) {
		t.Fatalf("expected advance with valid role")
	}
	if w.Stage() != StageInfo {
		t.Fatalf("expected stage 2, got %d", w.Stage())
	}
}

func TestSignupWizardInvalidEmailErrorsOnEmailOnly(t *testing.T) {
	w := NewSignupWizard(&mockStarter{})
	w.SetRole(domain.RoleEstimator)
	w.Next(context.Background())

	w.SetInfo("Ana", "Diaz", "not-an-email", "")
	if w.Next(context.Background()) {
		t.Fatalf("expected invalid email to block")
	}
	if w.FieldError("email") == "" {
		t.Fatalf("expected email error")
	}
	for _, field := range []string{"firstName", "lastName", "phone"} {
		if w.FieldError(field) != "" {
			t.Fatalf("unexpected %s error: %q", field, w.FieldError(field))
		}
	}
}

func TestSignupWizardPhoneIsOptionalButValidated(t *testing.T) {
	w := NewSignupWizard(&mockStarter{})
	w.SetRole(domain.RoleViewer)
	w.Next(context.Background())

	w.SetInfo("Ana", "Diaz", "ana@example.com", "llamame")
	if w.Next(context.Background()) {
		t.Fatalf("expected invalid phone to block")
	}
	if w.FieldError("phone") == "" {
		t.Fatalf("expected phone error")
	}

	w.SetInfo("Ana", "Diaz", "ana@example.com", "+54 (911) 5555-0000")
	if !w.Next(context.Background()) {
		t.Fatalf("expected permissive phone accepted")
	}
}

func TestSignupWizardStageTwoBlockedWhenStartFails(t *testing.T) {
	starter := &mockStarter{err: errors.New("rate limited")}
	w := NewSignupWizard(starter)
	w.SetRole(domain.RoleEstimator)
	w.Next(context.Background())
	w.SetInfo("Ana", "Diaz", "ana@example.com", "")

	if w.Next(context.Background()) {
		t.Fatalf("expected advance blocked when start-signup fails")
	}
	if w.Stage() != StageInfo {
		t.Fatalf("expected to stay on stage 2, got %d", w.Stage())
	}
	if w.FieldError("form") == "" {
		t.Fatalf("expected form-level error")
	}

	starter.err = nil
	if !w.Next(context.Background()) {
		t.Fatalf("expected advance after retry succeeds")
	}
	if w.Stage() != StageVerify {
		t.Fatalf("expected stage 3, got %d", w.Stage())
	}
	if starter.calls != 2 {
		t.Fatalf("expected two start-signup calls, got %d", starter.calls)
	}
	if starter.last.Email != "ana@example.com" {
		t.Fatalf("unexpected draft sent: %+v", starter.last)
	}
}

func TestSignupWizardVerifyDelegatesToOTPMachine(t *testing.T) {
	w := NewSignupWizard(&mockStarter{})
	w.SetRole(domain.RoleEstimator)
	w.Next(context.Background())
	w.SetInfo("Ana", "Diaz", "ana@example.com", "")
	w.Next(context.Background())

	if w.OTP().State() != StateOTP {
		t.Fatalf("expected otp machine armed on stage 3")
	}
	if w.Next(context.Background()) {
		t.Fatalf("expected incomplete code to block")
	}

	for i, d := range []byte{'1', '2', '3', '4', '5', '6'} {
		w.OTP().SetDigit(i, d)
	}
	if !w.OTP().ShouldSubmit() {
		t.Fatalf("signup flow uses auto-submit")
	}
	if !w.Next(context.Background()) {
		t.Fatalf("expected advance with full code")
	}
	if w.Stage() != StagePassword {
		t.Fatalf("expected stage 4, got %d", w.Stage())
	}
}

func TestSignupWizardPasswordStage(t *testing.T) {
	w := NewSignupWizard(&mockStarter{})
	w.SetRole(domain.RoleEstimator)
	w.Next(context.Background())
	w.SetInfo("Ana", "Diaz", "ana@example.com", "")
	w.Next(context.Background())
	w.Verified()

	w.SetPassword("short", "short")
	if w.Next(context.Background()) {
		t.Fatalf("expected short password blocked")
	}
	if w.FieldError("password") == "" {
		t.Fatalf("expected password error")
	}
	if w.Done() {
		t.Fatalf("wizard must not be done after a rejected password")
	}

	w.SetPassword("long-enough-1", "different")
	if w.Next(context.Background()) {
		t.Fatalf("expected mismatched confirmation blocked")
	}
	if w.FieldError("confirmPassword") == "" {
		t.Fatalf("expected confirmation error")
	}

	w.SetPassword("long-enough-1", "long-enough-1")
	if !w.Next(context.Background()) {
		t.Fatalf("expected valid password accepted")
	}
	if w.Stage() != StageDone || !w.Done() {
		t.Fatalf("expected terminal stage after valid password, got %d", w.Stage())
	}
	if w.Next(context.Background()) {
		t.Fatalf("a finished wizard must not advance further")
	}
}

func TestSignupWizardResetClearsEverything(t *testing.T) {
	w := NewSignupWizard(&mockStarter{})
	w.SetRole(domain.RoleEstimator)
	w.Next(context.Background())
	w.SetInfo("Ana", "Diaz", "ana@example.com", "")

	w.Reset()
	if w.Stage() != StageRole {
		t.Fatalf("expected stage 1 after reset")
	}
	if w.Draft() != (domain.SignupDraft{}) {
		t.Fatalf("expected empty draft, got %+v", w.Draft())
	}
	if w.FieldError("email") != "" {
		t.Fatalf("expected errors cleared")
	}
}

func TestPasswordStrengthClassification(t *testing.T) {
	cases := []struct {
		password string
		want     PasswordStrength
	}{
		{"", StrengthWeak},
		{"abc", StrengthWeak},
		{"abcdefgh", StrengthWeak},
		{"Abcdefgh1", StrengthMedium},
		{"Abcdefgh1!", StrengthStrong},
		{"Abcdefghijk1!", StrengthStrong},
	}
	for _, tc := range cases {
		if got := PasswordStrengthOf(tc.password); got != tc.want {
			t.Fatalf("password %q: expected %s, got %s", tc.password, tc.want, got)
		}
	}
}
