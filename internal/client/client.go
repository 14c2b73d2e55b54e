// Package client is a typed HTTP client for the customer records API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unclebandit/customer-records/internal/model"
)

// Client calls the REST API. All methods honour ctx cancellation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new API client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response carrying the server's {"error"} message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ListParams selects one page of customers.
type ListParams struct {
	Search string
	Page   int
	Limit  int
	Sort   string
	Order  string
}

// CustomerList is the list endpoint payload.
type CustomerList struct {
	Message    string           `json:"message"`
	Data       []model.Customer `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// Customers
// =============================================================================

func (c *Client) ListCustomers(ctx context.Context, p ListParams) (*CustomerList, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}

	path := "/api/customers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result CustomerList
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateCustomer returns the id assigned by the store.
func (c *Client) CreateCustomer(ctx context.Context, in model.CustomerInput) (int, error) {
	var result createdResponse
	if err := c.do(ctx, http.MethodPost, "/api/customers", in, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	var result struct {
		Data model.Customer `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, customerPath(id), nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int, in model.CustomerInput) error {
	return c.do(ctx, http.MethodPut, customerPath(id), in, &messageResponse{})
}

func (c *Client) DeleteCustomer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, customerPath(id), nil, &messageResponse{})
}

// =============================================================================
// Addresses
// =============================================================================

func (c *Client) ListAddresses(ctx context.Context, customerID int) ([]model.Address, error) {
	var result struct {
		Data []model.Address `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, customerPath(customerID)+"/addresses", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetAddress finds one address of a customer. The API has no single-address
// endpoint, so this scans the customer's list.
func (c *Client) GetAddress(ctx context.Context, customerID, addressID int) (*model.Address, error) {
	addresses, err := c.ListAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range addresses {
		if addresses[i].ID == addressID {
			return &addresses[i], nil
		}
	}
	return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Address not found"}
}

func (c *Client) CreateAddress(ctx context.Context, customerID int, in model.AddressInput) (int, error) {
	var result createdResponse
	if err := c.do(ctx, http.MethodPost, customerPath(customerID)+"/addresses", in, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

func (c *Client) UpdateAddress(ctx context.Context, customerID, addressID int, in model.AddressInput) error {
	return c.do(ctx, http.MethodPut, addressPath(customerID, addressID), in, &messageResponse{})
}

func (c *Client) DeleteAddress(ctx context.Context, customerID, addressID int) error {
	return c.do(ctx, http.MethodDelete, addressPath(customerID, addressID), nil, &messageResponse{})
}

func customerPath(id int) string {
	return "/api/customers/" + strconv.Itoa(id)
}

func addressPath(customerID, addressID int) string {
	return customerPath(customerID) + "/addresses/" + strconv.Itoa(addressID)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
