package api

import "fmt"

// NetworkError envuelve fallas de transporte o timeouts; nunca contiene una
// respuesta del servidor.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError representa una respuesta no-2xx. Message trae el mensaje del
// servidor cuando existe, o el fallback aportado por el caller.
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("request failed (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// ValidationError marca datos invalidos detectados antes de tocar la red.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}
