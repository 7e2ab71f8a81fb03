package auth

import (
	"encoding/json"
	"fmt"
	"net/url"

	"estimapp/internal/domain"
)

// CallbackResult es lo que el proveedor OAuth devuelve via query params.
type CallbackResult struct {
	Token string
	User  domain.User
}

// ParseCallback consume los parametros del callback OAuth. Un parametro
// error se reporta sin intentar parsear token ni user.
func ParseCallback(rawQuery string) (CallbackResult, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("parse callback query: %w", err)
	}

	if errValue := values.Get("error"); errValue != "" {
		return CallbackResult{}, fmt.Errorf("oauth provider error: %s", errValue)
	}

	token := values.Get("token")
	if token == "" {
		return CallbackResult{}, fmt.Errorf("oauth callback missing token")
	}
	rawUser := values.Get("user")
	if rawUser == "" {
		return CallbackResult{}, fmt.Errorf("oauth callback missing user")
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return CallbackResult{}, fmt.Errorf("decode callback user: %w", err)
	}
	return CallbackResult{Token: token, User: user}, nil
}
