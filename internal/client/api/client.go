package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource entrega el access token vigente; un string vacio significa
// sesion anonima.
type TokenSource interface {
	Token() string
}

// Client es el cliente JSON compartido por todos los recursos. Adjunta el
// header Authorization de forma centralizada.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewClient construye un cliente apuntando al base path del API.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// errorBody es la forma de error que responde el servidor.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Do ejecuta una request JSON y decodifica la respuesta en out (si out no es
// nil). fallback se usa como mensaje cuando el servidor no manda uno.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 400 {
		reqErr := &RequestError{Status: resp.StatusCode, Message: fallback}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			if eb.Error != "" {
				reqErr.Message = eb.Error
			}
			reqErr.Code = eb.Code
		}
		return reqErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Get es un atajo para requests GET sin body.
func (c *Client) Get(ctx context.Context, path string, out any, fallback string) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, fallback)
}

// Post es un atajo para requests POST con body JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any, fallback string) error {
	return c.Do(ctx, http.MethodPost, path, body, out, fallback)
}

// Put es un atajo para requests PUT con body JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any, fallback string) error {
	return c.Do(ctx, http.MethodPut, path, body, out, fallback)
}

// Delete es un atajo para requests DELETE sin body.
func (c *Client) Delete(ctx context.Context, path string, fallback string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, fallback)
}
