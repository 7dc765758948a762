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
	"strings"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/google/uuid"
)

const maxErrorBody = 4 << 10

// HTTPClient talks to the record store over HTTP/JSON.
type HTTPClient struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client rooted at endpointURL (for example
// "http://localhost:8080/api"). An empty token sends no Authorization header.
// A zero timeout leaves requests bounded only by their context.
func NewHTTPClient(endpointURL, token string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(endpointURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadEndpoint, endpointURL)
	}
	return &HTTPClient{
		baseURL: u,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "ping", nil, nil)
}

func (c *HTTPClient) ListRecords(ctx context.Context) ([]models.Record, error) {
	var out []models.Record
	if err := c.do(ctx, "list records", http.MethodGet, "records", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListCountries(ctx context.Context) ([]models.Country, error) {
	var out []models.Country
	if err := c.do(ctx, "list countries", http.MethodGet, "countries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	var out models.Record
	err := c.do(ctx, "update record", http.MethodPut, "records/"+url.PathEscape(rec.ID), rec, &out)
	if err != nil {
		return models.Record{}, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateCountry(ctx context.Context, id, name string) (models.Country, error) {
	var out models.Country
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	err := c.do(ctx, "update country", http.MethodPut, "countries/"+url.PathEscape(id), body, &out)
	if err != nil {
		return models.Country{}, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &models.RemoteError{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+"/"+path, body)
	if err != nil {
		return &models.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+c.token)
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &models.RemoteError{Op: op, Err: ctx.Err()}
		}
		return &models.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: mapStatus(resp)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return errors.New(msg)
	}
	return errors.New(http.StatusText(resp.StatusCode))
}
