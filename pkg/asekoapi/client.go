package asekoapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.aseko.cloud/api/v1"

	clientName    = "aseko2mqtt"
	clientVersion = "1.0.0"

	listPageLimit = 100
)

// UnitReader is the read side of the Aseko cloud API.
type UnitReader interface {
	// CheckAuth validates the configured API key.
	CheckAuth(ctx context.Context) error
	// ListUnitSerials returns the serial numbers of all paired units, sorted.
	ListUnitSerials(ctx context.Context) ([]string, error)
	// GetUnit returns the raw state of one unit.
	GetUnit(ctx context.Context, serialNumber string) (*RawUnit, error)
	// GetUnits returns the raw state of all paired units.
	GetUnits(ctx context.Context) ([]*RawUnit, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (c *Client) CheckAuth(ctx context.Context) error {
	var resp authCheckResponse
	if err := c.get(ctx, "/auth/check", nil, &resp); err != nil {
		return err
	}
	if !resp.Valid {
		return &AuthError{Status: http.StatusOK}
	}
	return nil
}

func (c *Client) ListUnitSerials(ctx context.Context) ([]string, error) {
	var serials []string
	page := 1

	for {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(listPageLimit))

		var resp pagedUnitsResponse
		if err := c.get(ctx, "/paired-units", params, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		for _, item := range resp.Items {
			serials = append(serials, item.SerialNumber)
		}
		if page*listPageLimit >= resp.TotalItems {
			break
		}
		page++
	}

	// stable ordering across API responses
	sort.Strings(serials)
	return serials, nil
}

func (c *Client) GetUnit(ctx context.Context, serialNumber string) (*RawUnit, error) {
	var unit RawUnit
	if err := c.get(ctx, "/paired-units/"+serialNumber, nil, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// GetUnits lists all paired serials and fetches unit details concurrently.
// An AuthError on any unit aborts the whole call. Units returning 404 are
// skipped, other per-unit failures are logged; the call only fails when
// serials exist but not a single unit could be fetched.
func (c *Client) GetUnits(ctx context.Context) ([]*RawUnit, error) {
	serials, err := c.ListUnitSerials(ctx)
	if err != nil {
		return nil, err
	}
	if len(serials) == 0 {
		return nil, nil
	}

	results := make([]*RawUnit, len(serials))
	errs := make([]error, len(serials))

	var wg sync.WaitGroup
	for i, serial := range serials {
		wg.Add(1)
		go func(i int, serial string) {
			defer wg.Done()
			results[i], errs[i] = c.GetUnit(ctx, serial)
		}(i, serial)
	}
	wg.Wait()

	var units []*RawUnit
	notFound := 0
	failed := 0
	for i, serial := range serials {
		switch err := errs[i]; {
		case err == nil:
			units = append(units, results[i])
		case isAuthError(err):
			return nil, err
		case isNotFoundError(err):
			c.logger.Debug("unit not found, skipping", zap.String("serial", serial))
			notFound++
		default:
			c.logger.Warn("failed to fetch unit", zap.String("serial", serial), zap.Error(err))
			failed++
		}
	}

	if len(units) == 0 {
		if notFound == len(serials) {
			return nil, &APIError{Message: fmt.Sprintf("all %d units returned 404 - data may be stale", notFound)}
		}
		if failed > 0 {
			return nil, &APIError{Message: fmt.Sprintf("failed to fetch any units. errors: %d", failed)}
		}
	}
	return units, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Client-Name", clientName)
	req.Header.Set("X-Client-Version", clientVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Endpoint: endpoint}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func isAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func isNotFoundError(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// ensure interface compliance
var _ UnitReader = (*Client)(nil)
