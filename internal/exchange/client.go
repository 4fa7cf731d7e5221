package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrMissingRates = errors.New("exchange rate response has no rates")

// FetchError is the typed failure every rate lookup surfaces. Callers see
// a loading/error state instead of silently stale data.
type FetchError struct {
	Base  string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching rates for %s: %v", e.Base, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// RateTable maps every supported code to units of that code per one unit
// of the base currency. It lives only in process memory.
type RateTable struct {
	Base      string
	Rates     map[string]float64
	FetchedAt time.Time
}

type Fetcher interface {
	FetchRates(ctx context.Context, base string) (map[string]float64, error)
}

const defaultRateAPIBaseURL = "https://open.er-api.com/v6"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    defaultRateAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchRates issues GET /latest/{base}. Any non-200 status or a missing
// rates field is a fetch error. The request is bound to ctx so a
// superseded base selection aborts the in-flight call instead of letting
// a late response overwrite a newer one.
func (c *Client) FetchRates(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Base: base, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Base: base, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Base: base, Cause: fmt.Errorf("status: %s", resp.Status)}
	}

	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &FetchError{Base: base, Cause: err}
	}
	if len(result.Rates) == 0 {
		return nil, &FetchError{Base: base, Cause: ErrMissingRates}
	}

	return result.Rates, nil
}
