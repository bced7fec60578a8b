package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mtomcal/videotitan-server/internal/shared"
)

// Firebase implements [Store] over the Firebase Realtime Database REST API.
//
// Paths map to `{base}/{path}.json`; Set is PUT (or DELETE for nil), Push is
// POST (the server generates a chronologically ordered key), Read is GET.
type Firebase struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// NewFirebase creates a Firebase store client for the given database URL.
// The secret, when non-empty, is passed as the auth query parameter.
func NewFirebase(baseURL, secret string) *Firebase {
	return &Firebase{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		secret:     secret,
		httpClient: http.DefaultClient,
	}
}

func (f *Firebase) url(path string) string {
	u := f.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if f.secret != "" {
		u += "?auth=" + f.secret
	}
	return u
}

func (f *Firebase) doRequest(ctx context.Context, method, path string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, f.url(path), body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrStore, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrStore, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d", shared.ErrStore, method, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrStore, path, err)
		}
	}

	return nil
}

// Set overwrites the subtree at path, or deletes it when value is nil.
func (f *Firebase) Set(ctx context.Context, path string, value any) error {
	if value == nil {
		return f.doRequest(ctx, http.MethodDelete, path, nil, nil)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal value for %s: %v", shared.ErrStore, path, err)
	}

	return f.doRequest(ctx, http.MethodPut, path, bytes.NewReader(data), nil)
}

// Push appends value under path; the server generates and returns the key.
func (f *Firebase) Push(ctx context.Context, path string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal value for %s: %v", shared.ErrStore, path, err)
	}

	var result struct {
		Name string `json:"name"`
	}
	if err := f.doRequest(ctx, http.MethodPost, path, bytes.NewReader(data), &result); err != nil {
		return "", err
	}
	if result.Name == "" {
		return "", fmt.Errorf("%w: push to %s returned no key", shared.ErrStore, path)
	}

	return result.Name, nil
}

// Read unmarshals the subtree at path into out. Firebase returns the JSON
// literal null for a missing path, which leaves out untouched.
func (f *Firebase) Read(ctx context.Context, path string, out any) error {
	return f.doRequest(ctx, http.MethodGet, path, nil, out)
}
