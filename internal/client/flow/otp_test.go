package flow

import "testing"

func TestOTPMachineEnterResetsBuffer(t *testing.T) {
	m := NewOTPMachine(false)
	if m.State() != StateCredentials {
		t.Fatalf("expected credentials state, got %s", m.State())
	}

	m.EnterOTP()
	m.SetDigit(0, '1')
	m.SetDigit(1, '2')

	m.BackToCredentials()
	m.EnterOTP()
	if m.Code() != "" {
		t.Fatalf("expected reset buffer, got %q", m.Code())
	}
	if m.FocusIndex() != 0 {
		t.Fatalf("expected focus at 0, got %d", m.FocusIndex())
	}
}

func TestOTPMachineFocusAdvancesToFirstEmptyCell(t *testing.T) {
	m := NewOTPMachine(false)
	m.EnterOTP()

	m.SetDigit(0, '1')
	m.SetDigit(1, '2')
	if m.FocusIndex() != 2 {
		t.Fatalf("expected focus 2, got %d", m.FocusIndex())
	}

	for i, d := range []byte{'3', '4', '5', '6'} {
		m.SetDigit(i+2, d)
	}
	if m.FocusIndex() != 5 {
		t.Fatalf("full buffer keeps focus on last cell, got %d", m.FocusIndex())
	}
	if m.Code() != "123456" {
		t.Fatalf("unexpected code %q", m.Code())
	}
}

func TestOTPMachineBackspaceOnEmptyCellRetreats(t *testing.T) {
	m := NewOTPMachine(false)
	m.EnterOTP()
	m.SetDigit(0, '1')
	m.SetDigit(1, '2')

	// Celda 2 vacia: el backspace borra la anterior.
	m.Backspace(2)
	if m.Code() != "1" {
		t.Fatalf("expected %q, got %q", "1", m.Code())
	}
	if m.FocusIndex() != 1 {
		t.Fatalf("expected focus 1, got %d", m.FocusIndex())
	}

	// Celda ocupada: el backspace solo la vacia.
	m.SetDigit(1, '2')
	m.Backspace(1)
	if m.Code() != "1" {
		t.Fatalf("expected %q, got %q", "1", m.Code())
	}
}

func TestOTPMachineIgnoresNonDigits(t *testing.T) {
	m := NewOTPMachine(false)
	m.EnterOTP()
	m.SetDigit(0, 'x')
	m.SetDigit(-1, '1')
	m.SetDigit(6, '1')
	if m.Code() != "" {
		t.Fatalf("expected empty buffer, got %q", m.Code())
	}
}

func TestOTPMachineAutoSubmitOnlyWhenEnabled(t *testing.T) {
	auto := NewOTPMachine(true)
	auto.EnterOTP()
	manual := NewOTPMachine(false)
	manual.EnterOTP()

	for i, d := range []byte{'1', '2', '3', '4', '5', '6'} {
		auto.SetDigit(i, d)
		manual.SetDigit(i, d)
	}

	if !auto.ShouldSubmit() {
		t.Fatalf("expected auto-submit with full buffer")
	}
	if manual.ShouldSubmit() {
		t.Fatalf("manual flow must require explicit submit")
	}

	auto.Backspace(5)
	if auto.ShouldSubmit() {
		t.Fatalf("incomplete buffer must not auto-submit")
	}
}
