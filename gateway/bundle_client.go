// Package gateway is the one client contract for the bundle API. Earlier
// frontends carried three diverging copies of this service with different
// field spellings and auth handling; this package replaces them with a
// single normalized client configured per backend version.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// ActiveFieldActive and ActiveFieldIsActive pick which spelling of the
	// active flag outgoing writes use. Exactly one is ever emitted.
	ActiveFieldActive   = "active"
	ActiveFieldIsActive = "is_active"
)

type Config struct {
	BaseURL     string
	HTTPClient  *http.Client
	ActiveField string
}

// Credentials carries the caller's auth explicitly; the client never reads
// tokens from ambient state.
type Credentials struct {
	Token string
}

type Client struct {
	baseURL     string
	http        *http.Client
	activeField string
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	activeField := cfg.ActiveField
	if activeField == "" {
		activeField = ActiveFieldActive
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		http:        httpClient,
		activeField: activeField,
	}
}

// APIError is a non-2xx response from the bundle API, as opposed to a
// transport failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bundle API returned %d: %s", e.StatusCode, e.Message)
}

type Filter struct {
	Search string
	Active *bool
	Public bool
}

type BundleInput struct {
	Name        string
	Type        string
	Description string
	Price       float64
	Active      bool
	ProductIDs  []uint
}

type BundleUpdate struct {
	Name        *string
	Type        *string
	Description *string
	Price       *float64
	Active      *bool
	ProductIDs  *[]uint
}

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, responseBody, nil
}

func apiError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			message = payload.Error
		} else if payload.Message != "" {
			message = payload.Message
		}
	}
	return &APIError{StatusCode: status, Message: message}
}

// setActive writes the active flag under the configured spelling, as the
// 0/1 integers every backend version accepts.
func (c *Client) setActive(payload map[string]any, active bool) {
	value := 0
	if active {
		value = 1
	}
	payload[c.activeField] = value
}

// GetBundles lists bundles. Failures degrade to an empty result set so a
// storefront page renders empty rather than erroring; identity-bearing
// records are never fabricated.
func (c *Client) GetBundles(ctx context.Context, creds Credentials, filter Filter) ([]Bundle, error) {
	params := url.Values{}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Active != nil {
		params.Set("active", strconv.FormatBool(*filter.Active))
	}
	if filter.Public {
		params.Set("public", "true")
	}

	path := "/bundles"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	status, body, err := c.do(ctx, creds, http.MethodGet, path, nil)
	if err != nil {
		log.Printf("Error fetching bundles: %v", err)
		return []Bundle{}, nil
	}
	if status >= 400 {
		log.Printf("Bundle API returned %d for list, degrading to empty result", status)
		return []Bundle{}, nil
	}

	return normalizeBundleList(body)
}

func (c *Client) GetBundleByID(ctx context.Context, creds Credentials, id uint) (*Bundle, error) {
	status, body, err := c.do(ctx, creds, http.MethodGet, fmt.Sprintf("/bundles/%d", id), nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, body)
	}

	bundle, err := normalizeBundle(unwrapEnvelope(body))
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *Client) CreateBundle(ctx context.Context, creds Credentials, input BundleInput) (*Bundle, error) {
	payload := map[string]any{
		"name":        input.Name,
		"type":        input.Type,
		"description": input.Description,
		"price":       input.Price,
		"product_ids": input.ProductIDs,
	}
	c.setActive(payload, input.Active)

	status, body, err := c.do(ctx, creds, http.MethodPost, "/bundles", payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, body)
	}

	bundle, err := normalizeBundle(unwrapEnvelope(body))
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *Client) UpdateBundle(ctx context.Context, creds Credentials, id uint, update BundleUpdate) (*Bundle, error) {
	payload := map[string]any{}
	if update.Name != nil {
		payload["name"] = *update.Name
	}
	if update.Type != nil {
		payload["type"] = *update.Type
	}
	if update.Description != nil {
		payload["description"] = *update.Description
	}
	if update.Price != nil {
		payload["price"] = *update.Price
	}
	if update.ProductIDs != nil {
		payload["product_ids"] = *update.ProductIDs
	}
	if update.Active != nil {
		c.setActive(payload, *update.Active)
	}

	status, body, err := c.do(ctx, creds, http.MethodPut, fmt.Sprintf("/bundles/%d", id), payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, body)
	}

	bundle, err := normalizeBundle(unwrapEnvelope(body))
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *Client) DeleteBundle(ctx context.Context, creds Credentials, id uint) error {
	status, body, err := c.do(ctx, creds, http.MethodDelete, fmt.Sprintf("/bundles/%d", id), nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return apiError(status, body)
	}
	return nil
}

// ToggleBundleStatus sets the bundle's active flag to the given value.
func (c *Client) ToggleBundleStatus(ctx context.Context, creds Credentials, id uint, active bool) (*Bundle, error) {
	payload := map[string]any{}
	c.setActive(payload, active)

	status, body, err := c.do(ctx, creds, http.MethodPost, fmt.Sprintf("/bundles/%d/toggle-status", id), payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, body)
	}

	bundle, err := normalizeBundle(unwrapEnvelope(body))
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}
