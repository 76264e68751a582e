// Package client is a Go SDK for the recordshelf API. It mirrors the browser
// contracts: a debounced query source feeding a cached search, a read-through
// collection store invalidated on mutation, and a mutation coordinator that
// guards against duplicate concurrent submissions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avasquez/recordshelf-be/internal/models"
)

var (
	// ErrUnauthorized indicates a missing or rejected session.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrUserGone indicates the session references a deleted account; the
	// consuming session must be terminated.
	ErrUserGone = errors.New("user no longer exists")
)

// Client is an HTTP client for the recordshelf API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates an API client against the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
		return resp.StatusCode, nil
	}
	if resp.StatusCode >= 300 {
		var msg messageResponse
		json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Message == "" {
			msg.Message = resp.Status
		}
		return resp.StatusCode, errors.New(msg.Message)
	}
	return resp.StatusCode, nil
}

// Login authenticates and stores the returned session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		if status == http.StatusUnauthorized {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	c.token = out.Token
	return out.User, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (models.User, error) {
	var out userResponse
	_, err := c.do(ctx, http.MethodPost, "/api/user",
		map[string]string{"username": username, "email": email, "password": password}, &out)
	if err != nil {
		return models.User{}, err
	}
	if out.User == nil {
		return models.User{}, errors.New("server returned no user")
	}
	return *out.User, nil
}

// Me fetches the authenticated user and their collection. A 404 maps to
// ErrUserGone, a 401 to ErrUnauthorized.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	status, err := c.do(ctx, http.MethodGet, "/api/me", nil, &user)
	if err != nil {
		switch status {
		case http.StatusUnauthorized:
			return models.User{}, ErrUnauthorized
		case http.StatusNotFound:
			return models.User{}, ErrUserGone
		}
		return models.User{}, err
	}
	return user, nil
}

// SaveAlbum adds one album to the user's collection.
func (c *Client) SaveAlbum(ctx context.Context, userID string, entry models.AlbumEntry) (models.User, error) {
	var out userResponse
	_, err := c.do(ctx, http.MethodPatch, "/api/user/"+url.PathEscape(userID),
		map[string]models.AlbumEntry{"album": entry}, &out)
	if err != nil {
		return models.User{}, err
	}
	if out.User == nil {
		return models.User{}, errors.New("server returned no user")
	}
	return *out.User, nil
}

// DeleteAlbum removes one album from the user's collection by id.
func (c *Client) DeleteAlbum(ctx context.Context, userID, albumID string) (models.User, error) {
	var out userResponse
	_, err := c.do(ctx, http.MethodDelete, "/api/user/"+url.PathEscape(userID),
		map[string]string{"albumId": albumID}, &out)
	if err != nil {
		return models.User{}, err
	}
	if out.User == nil {
		return models.User{}, errors.New("server returned no user")
	}
	return *out.User, nil
}

// Search performs a free-text album search.
func (c *Client) Search(ctx context.Context, query string) ([]models.AlbumCandidate, error) {
	var candidates []models.AlbumCandidate
	_, err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &candidates)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
