package flow

// OTPState es el estado del flujo de verificacion por codigo.
type OTPState string

const (
	StateCredentials   OTPState = "credentials"
	StateOTP           OTPState = "otp"
	StateAuthenticated OTPState = "authenticated"
)

const otpLength = 6

// OTPMachine modela el paso de ingreso del codigo como un buffer acotado de
// seis celdas con foco calculado. El avance de foco es un asunto de la vista;
// la maquina solo expone el indice.
type OTPMachine struct {
	state      OTPState
	cells      [otpLength]byte
	autoSubmit bool
}

// NewOTPMachine crea la maquina en el estado credentials. autoSubmit activa
// el envio automatico al completar las seis celdas (flujo de registro); el
// login lo deja apagado y envia de forma explicita.
func NewOTPMachine(autoSubmit bool) *OTPMachine {
	return &OTPMachine{state: StateCredentials, autoSubmit: autoSubmit}
}

// State devuelve el estado actual.
func (m *OTPMachine) State() OTPState { return m.state }

// EnterOTP pasa al estado otp y resetea el buffer del codigo.
func (m *OTPMachine) EnterOTP() {
	m.state = StateOTP
	m.cells = [otpLength]byte{}
}

// BackToCredentials vuelve al estado inicial descartando el codigo.
func (m *OTPMachine) BackToCredentials() {
	m.state = StateCredentials
	m.cells = [otpLength]byte{}
}

// Authenticated marca el flujo como terminado.
func (m *OTPMachine) Authenticated() {
	m.state = StateAuthenticated
}

// SetDigit escribe un digito en la celda index. Entradas fuera de rango o
// no numericas se ignoran.
func (m *OTPMachine) SetDigit(index int, digit byte) {
	if m.state != StateOTP || index < 0 || index >= otpLength {
		return
	}
	if digit < '0' || digit > '9' {
		return
	}
	m.cells[index] = digit
}

// Backspace borra la celda index; sobre una celda vacia el foco retrocede,
// lo que se refleja en FocusIndex.
func (m *OTPMachine) Backspace(index int) {
	if m.state != StateOTP || index < 0 || index >= otpLength {
		return
	}
	if m.cells[index] != 0 {
		m.cells[index] = 0
		return
	}
	if index > 0 {
		m.cells[index-1] = 0
	}
}

// FocusIndex devuelve la primera celda vacia; con el buffer completo apunta
// a la ultima celda.
func (m *OTPMachine) FocusIndex() int {
	for i, cell := range m.cells {
		if cell == 0 {
			return i
		}
	}
	return otpLength - 1
}

// Code devuelve el contenido del buffer como string.
func (m *OTPMachine) Code() string {
	out := make([]byte, 0, otpLength)
	for _, cell := range m.cells {
		if cell == 0 {
			continue
		}
		out = append(out, cell)
	}
	return string(out)
}

// Complete indica si las seis celdas estan llenas.
func (m *OTPMachine) Complete() bool {
	for _, cell := range m.cells {
		if cell == 0 {
			return false
		}
	}
	return true
}

// ShouldSubmit indica si corresponde enviar el codigo sin accion explicita.
// Solo aplica con autoSubmit activo y el buffer completo.
func (m *OTPMachine) ShouldSubmit() bool {
	return m.autoSubmit && m.state == StateOTP && m.Complete()
}
