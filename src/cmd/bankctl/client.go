package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/gorilla/websocket"
)

var errNoToken = errors.New("no session token: run `bankctl login` and export BANKIST_TOKEN, or pass -token")

type client struct {
	base  string
	token string
	http  *http.Client
}

func newClient(base string, token string) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		token: strings.TrimSpace(token),
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError carries a failed Response so callers can show its reason code.
type apiError struct {
	Status  int
	Code    string
	Message string
	Errors  []string
}

func (e *apiError) Error() string {
	msg := e.Message
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s, http %d)", msg, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (http %d)", msg, e.Status)
}

func call[T any](ctx context.Context, c *client, method string, path string, body any, auth func(*http.Request)) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return zero, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != nil {
		auth(req)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}

	var resp commons.Response[T]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return zero, &apiError{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if !resp.Success || resp.Data == nil {
		return zero, &apiError{Status: res.StatusCode, Code: resp.Code, Message: resp.Message, Errors: resp.Errors}
	}
	return *resp.Data, nil
}

func (c *client) bearer() (func(*http.Request), error) {
	if c.token == "" {
		return nil, errNoToken
	}
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}, nil
}

func authed[T any](ctx context.Context, c *client, method string, path string, body any) (T, error) {
	auth, err := c.bearer()
	if err != nil {
		var zero T
		return zero, err
	}
	return call[T](ctx, c, method, path, body, auth)
}

// watch streams session events until the server closes the stream or ctx
// is done. fn sees every event.
func (c *client) watch(ctx context.Context, fn func(session.Event)) error {
	if c.token == "" {
		return errNoToken
	}

	u, err := url.Parse(c.base + "/session/events")
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var event session.Event
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn(event)
	}
}
