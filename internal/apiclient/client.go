// Package apiclient is the thin HTTP client for the flagdeck backend. All
// business logic (flag evaluation, bucketing, persistence, auth) lives on
// the server; this client only shuttles JSON and normalizes errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"flagdeck/internal/models"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response with its HTTP status attached.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Unwrap maps well-known statuses onto sentinel errors so call sites can
// use errors.Is without losing the status code.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// RequestInterceptor may inspect or mutate an outgoing request before send.
type RequestInterceptor func(*http.Request) error

// ResponseInterceptor may inspect a response before it is decoded.
type ResponseInterceptor func(*http.Response) error

// Client is an HTTP client for the flagdeck backend.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	reqHooks  []RequestInterceptor
	respHooks []ResponseInterceptor
}

// New creates a new backend client. An empty token means unauthenticated;
// authenticated endpoints will then be rejected by the server, which is why
// callers should gate fetches on a session existing at all.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// OnRequest appends a request interceptor. Interceptors run in
// registration order.
func (c *Client) OnRequest(fn RequestInterceptor) {
	c.reqHooks = append(c.reqHooks, fn)
}

// OnResponse appends a response interceptor. Interceptors run in
// registration order.
func (c *Client) OnResponse(fn ResponseInterceptor) {
	c.respHooks = append(c.respHooks, fn)
}

// --- Flag types ---

// CreateFlagRequest is the body for POST /flags.
type CreateFlagRequest struct {
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Environment       models.Environment `json:"environment"`
	Enabled           bool               `json:"enabled"`
	RolloutPercentage int                `json:"rolloutPercentage"`
}

// UpdateFlagRequest is the body for PUT /flags/{id}. Pointer fields are
// omitted when nil so a toggle does not clobber the rollout and vice versa.
type UpdateFlagRequest struct {
	Name              *string             `json:"name,omitempty"`
	Description       *string             `json:"description,omitempty"`
	Environment       *models.Environment `json:"environment,omitempty"`
	Enabled           *bool               `json:"enabled,omitempty"`
	RolloutPercentage *int                `json:"rolloutPercentage,omitempty"`
}

// --- Audit types ---

// AuditQuery holds the server-side list parameters for GET /audit-logs.
type AuditQuery struct {
	SortField  string
	SortOrder  string // "asc" or "desc"
	Page       int
	Limit      int
	Action     string // "all" or a specific action
	SearchTerm string
}

// AuditPage is the response from GET /audit-logs.
type AuditPage struct {
	Logs       []models.AuditLog `json:"logs"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// --- API key types ---

// APIKeysResponse is the response from GET /api-keys: the current key (if
// any) plus revoked history. FullKey is never present here; it appears only
// once, in the generate response.
type APIKeysResponse struct {
	Current *models.APIKey  `json:"current,omitempty"`
	History []models.APIKey `json:"history,omitempty"`
}

// --- Invite types ---

// InviteVerification is the response from PUT /wait-list-signup/verify-invite.
type InviteVerification struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}

// --- Flag methods ---

// ListFlags fetches all flags for the account.
func (c *Client) ListFlags(ctx context.Context) ([]models.FeatureFlag, error) {
	var resp []models.FeatureFlag
	if err := c.do(ctx, "GET", "/flags", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateFlag creates a new flag. The rollout percentage is clamped client
// side so an out-of-range value never reaches the wire.
func (c *Client) CreateFlag(ctx context.Context, req CreateFlagRequest) (*models.FeatureFlag, error) {
	req.RolloutPercentage = models.ClampRollout(req.RolloutPercentage)
	var resp models.FeatureFlag
	if err := c.do(ctx, "POST", "/flags", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateFlag applies a partial update to a flag.
func (c *Client) UpdateFlag(ctx context.Context, id string, req UpdateFlagRequest) (*models.FeatureFlag, error) {
	if req.RolloutPercentage != nil {
		clamped := models.ClampRollout(*req.RolloutPercentage)
		req.RolloutPercentage = &clamped
	}
	var resp models.FeatureFlag
	if err := c.do(ctx, "PUT", "/flags/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleFlag flips a flag's enabled state.
func (c *Client) ToggleFlag(ctx context.Context, id string, enabled bool) (*models.FeatureFlag, error) {
	return c.UpdateFlag(ctx, id, UpdateFlagRequest{Enabled: &enabled})
}

// SetRollout updates a flag's rollout percentage.
func (c *Client) SetRollout(ctx context.Context, id string, percent int) (*models.FeatureFlag, error) {
	return c.UpdateFlag(ctx, id, UpdateFlagRequest{RolloutPercentage: &percent})
}

// DeleteFlag deletes a flag.
func (c *Client) DeleteFlag(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/flags/"+url.PathEscape(id), nil, nil)
}

// --- Audit methods ---

// ListAuditLogs fetches a page of audit logs with server-side
// sort/filter/pagination.
func (c *Client) ListAuditLogs(ctx context.Context, q AuditQuery) (*AuditPage, error) {
	params := url.Values{}
	if q.SortField != "" {
		params.Set("sortField", q.SortField)
	}
	if q.SortOrder != "" {
		params.Set("sortOrder", q.SortOrder)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Action != "" {
		params.Set("action", q.Action)
	}
	if q.SearchTerm != "" {
		params.Set("searchTerm", q.SearchTerm)
	}

	path := "/audit-logs"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp AuditPage
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- API key methods ---

// GetAPIKeys fetches the current key and revoked history.
func (c *Client) GetAPIKeys(ctx context.Context) (*APIKeysResponse, error) {
	var resp APIKeysResponse
	if err := c.do(ctx, "GET", "/api-keys", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateAPIKey mints a new key, implicitly revoking the previous one on
// the server. The response is the only place FullKey ever appears.
func (c *Client) GenerateAPIKey(ctx context.Context) (*models.APIKey, error) {
	var resp models.APIKey
	if err := c.do(ctx, "POST", "/api-keys", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeAPIKey revokes the current key without generating a replacement.
func (c *Client) RevokeAPIKey(ctx context.Context) error {
	return c.do(ctx, "PUT", "/api-keys/revoke", nil, nil)
}

// DeleteAPIKey removes a revoked key from history.
func (c *Client) DeleteAPIKey(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api-keys/"+url.PathEscape(id), nil, nil)
}

// --- Invite / waitlist methods ---

// VerifyInvite checks a beta invite token. No auth required.
func (c *Client) VerifyInvite(ctx context.Context, token string) (*InviteVerification, error) {
	body := map[string]string{"token": token}
	var resp InviteVerification
	if err := c.doNoAuth(ctx, "PUT", "/wait-list-signup/verify-invite", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListWaitList fetches all waitlist signups (operator view).
func (c *Client) ListWaitList(ctx context.Context) ([]models.WaitListSignup, error) {
	var resp []models.WaitListSignup
	if err := c.do(ctx, "GET", "/wait-list-signup", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateWaitListStatus changes a signup's status on the server.
func (c *Client) UpdateWaitListStatus(ctx context.Context, id string, status models.WaitListStatus) error {
	body := map[string]string{"status": string(status)}
	return c.do(ctx, "PUT", "/wait-list-signup/"+url.PathEscape(id), body, nil)
}

// --- Auth methods ---

// UpsertUser records a sign-in with the identity provider.
func (c *Client) UpsertUser(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, "POST", "/auth/upsert", body, nil)
}

// --- HTTP helpers ---

// do executes an authenticated HTTP request.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	return c.doRequest(ctx, method, path, body, result, true)
}

// doNoAuth executes an unauthenticated HTTP request.
func (c *Client) doNoAuth(ctx context.Context, method, path string, body, result any) error {
	return c.doRequest(ctx, method, path, body, result, false)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, auth bool) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if auth && c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	for _, hook := range c.reqHooks {
		if err := hook(req); err != nil {
			return fmt.Errorf("request interceptor: %w", err)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	for _, hook := range c.respHooks {
		if err := hook(resp); err != nil {
			return fmt.Errorf("response interceptor: %w", err)
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// errorMessage extracts a human-readable message from an error body:
// a string "error" field if present, otherwise the first string-valued
// field (keys considered in sorted order, for determinism), otherwise the
// raw body text.
func errorMessage(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		if msg, ok := fields["error"].(string); ok {
			return msg
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg, ok := fields[k].(string); ok {
				return msg
			}
		}
	}
	return string(body)
}
