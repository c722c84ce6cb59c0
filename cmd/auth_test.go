package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curse-modpack/config"
	"curse-modpack/curse"

	"github.com/spf13/afero"
)

func newAuthServer(t *testing.T) *curse.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/authenticate" || body.Password != "secret" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"session": {"user_id": 42, "token": "abc"}}`)
	}))
	t.Cleanup(srv.Close)

	client, err := curse.NewClient(config.Config{UserAgent: "test-agent", CurseProxyURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestRunAuth(t *testing.T) {
	client := newAuthServer(t)
	fs := afero.NewMemMapFs()
	var out bytes.Buffer

	if err := runAuth(context.Background(), client, fs, "data/token.yaml", "steve", "secret", &out); err != nil {
		t.Fatalf("runAuth failed: %v", err)
	}
	if !strings.Contains(out.String(), "Logged in as steve") {
		t.Errorf("output = %q", out.String())
	}

	f, err := fs.Open("data/token.yaml")
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	defer f.Close()
	auth, err := curse.LoadAuthorization(f)
	if err != nil {
		t.Fatalf("LoadAuthorization failed: %v", err)
	}
	if auth.UserID != 42 || auth.Token != "abc" {
		t.Errorf("stored %+v", auth)
	}
}

func TestRunAuthRejected(t *testing.T) {
	client := newAuthServer(t)
	fs := afero.NewMemMapFs()

	err := runAuth(context.Background(), client, fs, "token.yaml", "steve", "wrong", &bytes.Buffer{})
	if !errors.Is(err, curse.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if exists, _ := afero.Exists(fs, "token.yaml"); exists {
		t.Error("token stored after a rejected login")
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"secret\n", "secret"},
		{"secret\r\n", "secret"},
		{"secret", "secret"},
		{"", ""},
	}

	for _, tt := range tests {
		got, err := readLine(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("readLine(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("readLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
