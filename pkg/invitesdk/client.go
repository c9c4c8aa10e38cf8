// Package invitesdk is a typed HTTP client for the invite service,
// intended for the host platform and integration tests. Authenticated
// calls carry a bearer token the host platform mints itself.
package invitesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for the invite service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AccessToken is attached as a bearer token to authenticated
	// endpoints. Leave empty for public calls only.
	AccessToken string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		AccessToken: accessToken,
	}
}

// MintInvite creates an invite. Requires the invites:write scope.
func (c *Client) MintInvite(ctx context.Context, req MintInviteRequest) (*MintInviteResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/invites", req, true)
	if err != nil {
		return nil, err
	}

	var out MintInviteResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateInvite checks a code without consuming it. Public endpoint.
func (c *Client) ValidateInvite(ctx context.Context, code string) (*ValidateInviteResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/invites/validate",
		ValidateInviteRequest{Code: code}, false)
	if err != nil {
		return nil, err
	}

	var out ValidateInviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvite redeems a code for the authenticated tenant. Requires
// the tenancy:accept scope.
func (c *Client) AcceptInvite(ctx context.Context, code string) (*AcceptInviteResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/invites/accept",
		AcceptInviteRequest{Code: code}, true)
	if err != nil {
		return nil, err
	}

	var out AcceptInviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeInvite disables an invite. Requires the invites:write scope.
func (c *Client) RevokeInvite(ctx context.Context, inviteID string) (*RevokeInviteResponse, error) {
	path := fmt.Sprintf("/v1/invites/%s/revoke", url.PathEscape(inviteID))
	resp, err := c.doJSON(ctx, http.MethodPost, path, nil, true)
	if err != nil {
		return nil, err
	}

	var out RevokeInviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPropertyInvites lists a property's invites, newest first.
// Requires the invites:read scope.
func (c *Client) ListPropertyInvites(ctx context.Context, propertyID string) (*ListInvitesResponse, error) {
	path := fmt.Sprintf("/v1/properties/%s/invites", url.PathEscape(propertyID))
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}

	var out ListInvitesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncProperty upserts a mirrored property record. Requires the
// properties:write scope.
func (c *Client) SyncProperty(ctx context.Context, propertyID string, req SyncPropertyRequest) error {
	path := fmt.Sprintf("/v1/properties/%s", url.PathEscape(propertyID))
	resp, err := c.doJSON(ctx, http.MethodPut, path, req, true)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusNoContent)
}

// Readyz reports service readiness. Public endpoint.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, false)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	body any,
	authenticated bool,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}
