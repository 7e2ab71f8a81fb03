package auth

import (
	"context"
	"errors"
	"sync"

	"estimapp/internal/client/api"
	"estimapp/internal/client/session"
	"estimapp/internal/domain"
)

// ErrBusy indica que la misma operacion ya esta en vuelo.
var ErrBusy = errors.New("operation already in progress")

// ErrNeedsVerification indica que la cuenta existe pero el email no fue
// verificado; el caller debe derivar al flujo OTP.
var ErrNeedsVerification = errors.New("email needs verification")

// Nombres de operacion para los flags in-flight y los ultimos errores.
const (
	opLogin          = "login"
	opSendOTP        = "sendOtp"
	opVerifyOTP      = "verifyOtp"
	opStartSignup    = "startSignup"
	opCompleteSignup = "completeSignup"
	opGoogle         = "google"
)

// sessionResponse es la forma documentada de las respuestas que emiten
// tokens.
type sessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         domain.User `json:"user"`
}

// Client agrupa las operaciones de autenticacion del cliente. Cada operacion
// lleva su propio flag in-flight y su ultimo mensaje de error transitorio.
type Client struct {
	api     *api.Client
	session *session.Manager

	mu       sync.Mutex
	inFlight map[string]bool
	lastErr  map[string]string
}

func NewClient(apiClient *api.Client, sess *session.Manager) *Client {
	return &Client{
		api:      apiClient,
		session:  sess,
		inFlight: make(map[string]bool),
		lastErr:  make(map[string]string),
	}
}

// begin marca la operacion como en vuelo y limpia su ultimo error.
func (c *Client) begin(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[op] {
		return ErrBusy
	}
	c.inFlight[op] = true
	delete(c.lastErr, op)
	return nil
}

func (c *Client) end(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight[op] = false
	if err != nil {
		c.lastErr[op] = err.Error()
	}
}

// LastError devuelve el mensaje del ultimo fallo de la operacion, o vacio.
func (c *Client) LastError(op string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr[op]
}

// Login autentica con email y password y establece la sesion.
func (c *Client) Login(ctx context.Context, email, password string) (err error) {
	if email == "" {
		return &api.ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return &api.ValidationError{Field: "password", Message: "password is required"}
	}
	if err := c.begin(opLogin); err != nil {
		return err
	}
	defer func() { c.end(opLogin, err) }()

	var resp sessionResponse
	if err = c.api.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp, "Login failed"); err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.Code == "NEEDS_VERIFICATION" {
			err = ErrNeedsVerification
		}
		return err
	}
	return c.session.Establish(resp.AccessToken, resp.User)
}

// SendOTP pide un codigo de verificacion y recuerda el email pendiente. No
// crea sesion.
func (c *Client) SendOTP(ctx context.Context, email string) (err error) {
	if email == "" {
		return &api.ValidationError{Field: "email", Message: "email is required"}
	}
	if err := c.begin(opSendOTP); err != nil {
		return err
	}
	defer func() { c.end(opSendOTP, err) }()

	if err = c.api.Post(ctx, "/auth/send-otp", map[string]string{
		"email": email,
	}, nil, "Could not send verification code"); err != nil {
		return err
	}
	return c.session.SetPendingEmail(email)
}

// VerifyOTP valida el codigo y, de ser correcto, establece la sesion. El
// codigo se valida localmente antes de tocar la red.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (err error) {
	if email == "" {
		return &api.ValidationError{Field: "email", Message: "email is required"}
	}
	if !isSixDigits(code) {
		return &api.ValidationError{Field: "otp", Message: "code must be 6 digits"}
	}
	if err := c.begin(opVerifyOTP); err != nil {
		return err
	}
	defer func() { c.end(opVerifyOTP, err) }()

	var resp sessionResponse
	if err = c.api.Post(ctx, "/auth/verify-signup", map[string]string{
		"email": email,
		"otp":   code,
	}, &resp, "OTP verification failed"); err != nil {
		return err
	}
	return c.session.Establish(resp.AccessToken, resp.User)
}

// StartSignup envia el pre-registro del asistente. No emite tokens: el
// registro siempre pasa primero por la verificacion OTP.
func (c *Client) StartSignup(ctx context.Context, draft domain.SignupDraft) (err error) {
	switch {
	case draft.FirstName == "":
		return &api.ValidationError{Field: "firstName", Message: "first name is required"}
	case draft.LastName == "":
		return &api.ValidationError{Field: "lastName", Message: "last name is required"}
	case draft.Email == "":
		return &api.ValidationError{Field: "email", Message: "email is required"}
	case !domain.IsSignupRole(draft.Role):
		return &api.ValidationError{Field: "role", Message: "role is required"}
	}
	if err := c.begin(opStartSignup); err != nil {
		return err
	}
	defer func() { c.end(opStartSignup, err) }()

	if err = c.api.Post(ctx, "/auth/start-signup", draft, nil, "Signup failed"); err != nil {
		return err
	}
	return c.session.SetPendingEmail(draft.Email)
}

// CompleteSignup fija la password final; el servidor emite tokens y el
// cliente establece la sesion.
func (c *Client) CompleteSignup(ctx context.Context, email, password string) (err error) {
	if email == "" {
		return &api.ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return &api.ValidationError{Field: "password", Message: "password is required"}
	}
	if err := c.begin(opCompleteSignup); err != nil {
		return err
	}
	defer func() { c.end(opCompleteSignup, err) }()

	var resp sessionResponse
	if err = c.api.Post(ctx, "/auth/complete-signup", map[string]string{
		"email":    email,
		"password": password,
	}, &resp, "Could not complete signup"); err != nil {
		return err
	}
	return c.session.Establish(resp.AccessToken, resp.User)
}

// LoginWithGoogle establece la sesion a partir del resultado del callback
// OAuth; no hay round trip adicional.
func (c *Client) LoginWithGoogle(ctx context.Context, user domain.User, token string) (err error) {
	if token == "" {
		return &api.ValidationError{Field: "token", Message: "token is required"}
	}
	if user.Email == "" {
		return &api.ValidationError{Field: "user", Message: "user is required"}
	}
	if err := c.begin(opGoogle); err != nil {
		return err
	}
	defer func() { c.end(opGoogle, err) }()

	return c.session.Establish(token, user)
}

// Logout limpia la sesion local. No hay llamada al servidor: los tokens de
// acceso expiran solos.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
