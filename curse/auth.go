package curse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidCredentials is returned when the proxy rejects a login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidAuthorization is returned for unreadable stored credentials.
	ErrInvalidAuthorization = errors.New("invalid authentication data")
)

// Authorization is a proxy session.
type Authorization struct {
	UserID int    `yaml:"user_id"`
	Token  string `yaml:"token"`
}

func (a *Authorization) header() string {
	return "Token " + strconv.Itoa(a.UserID) + ":" + a.Token
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Session struct {
		UserID int    `json:"user_id"`
		Token  string `json:"token"`
	} `json:"session"`
}

// Login opens a proxy session for the user.
func (c *Client) Login(ctx context.Context, username, password string) (*Authorization, error) {
	var resp loginResponse
	_, err := c.makeRequest(ctx, "POST", c.BaseURL+"/authenticate", loginRequest{Username: username, Password: password}, &resp, false)
	var status *StatusError
	if errors.As(err, &status) && (status.Code == http.StatusUnauthorized || status.Code == http.StatusForbidden || status.Code == http.StatusBadRequest) {
		return nil, fmt.Errorf("%s: %w", username, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if resp.Session.Token == "" {
		return nil, fmt.Errorf("%s: %w", username, ErrInvalidCredentials)
	}
	return &Authorization{UserID: resp.Session.UserID, Token: resp.Session.Token}, nil
}

// LoadAuthorization reads credentials stored by Dump.
func LoadAuthorization(r io.Reader) (*Authorization, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAuthorization, err)
	}

	userID, ok := raw["user_id"].(int)
	if !ok {
		return nil, fmt.Errorf("%w: user_id missing", ErrInvalidAuthorization)
	}
	token, ok := raw["token"].(string)
	if !ok || token == "" {
		return nil, fmt.Errorf("%w: token missing", ErrInvalidAuthorization)
	}
	return &Authorization{UserID: userID, Token: token}, nil
}

// Dump stores the credentials for future use.
func (a *Authorization) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(a); err != nil {
		return err
	}
	return enc.Close()
}
