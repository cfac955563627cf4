package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// response is a union of every body the server returns.
type response struct {
	Signup      string `json:"signup"`
	Login       string `json:"login"`
	Logout      string `json:"logout"`
	Reason      string `json:"reason"`
	Error       string `json:"error"`
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

func (c *HTTPClient) Signup(ctx context.Context, email string, password []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/signup", "", credentials{Email: email, Password: string(password)}, http.StatusCreated)
	return err
}

// Login returns the access token issued for the credentials.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	r, err := c.do(ctx, http.MethodPost, "/login", "", credentials{Email: email, Password: string(password)}, http.StatusOK)
	if err != nil {
		return "", err
	}
	if r.AccessToken == "" {
		return "", fmt.Errorf("login: empty access token")
	}
	return r.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", token, nil, http.StatusOK)
	return err
}

// Me returns the email the token was issued to.
func (c *HTTPClient) Me(ctx context.Context, token string) (string, error) {
	r, err := c.do(ctx, http.MethodGet, "/me", token, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	return r.Email, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body any, want int) (*response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode == want {
		return &r, nil
	}

	reason := r.Reason
	if reason == "" {
		reason = r.Error
	}

	kind := ErrRejected
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case resp.StatusCode >= http.StatusInternalServerError:
		kind = ErrUnavailable
	}

	return nil, &APIError{Status: resp.StatusCode, Reason: reason, kind: kind}
}
