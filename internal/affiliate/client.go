// Package affiliate talks to the marketplace affiliate GraphQL API.
package affiliate

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"achadinhos/internal/model"
	"achadinhos/internal/observability"
)

var ErrRateLimited = errors.New("affiliate: rate limited")

// APIError is an error reported inside a GraphQL response body.
type APIError struct {
	Op          string
	Code        int
	Message     string
	RateLimited bool
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("affiliate %s: %s (code %d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("affiliate %s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.RateLimited {
		return ErrRateLimited
	}
	return nil
}

type Client struct {
	AppID  string
	Secret string
	URL    string

	HTTP    *http.Client
	Limiter *rate.Limiter

	// RetryWait is how long to wait before the single retry after a
	// rate-limit error.
	RetryWait time.Duration

	now func() time.Time
}

// NewClient paces requests to one per interval.
func NewClient(appID, secret, url string, interval time.Duration) *Client {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Client{
		AppID:     appID,
		Secret:    secret,
		URL:       url,
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		Limiter:   rate.NewLimiter(limit, 1),
		RetryWait: 5 * time.Second,
		now:       time.Now,
	}
}

// Offers fetches one page of productOfferV2.
func (c *Client) Offers(ctx context.Context, q Query) ([]model.RawOffer, error) {
	var resp offerResponse
	err := c.query(ctx, "productOfferV2", BuildOfferQuery(q), func(body []byte) ([]graphQLError, error) {
		resp = offerResponse{}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, err
		}
		return resp.Errors, nil
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.ProductOfferV2.Nodes, nil
}

// Categories fetches the whole category tree.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var resp categoryResponse
	err := c.query(ctx, "productCategory", categoryQuery, func(body []byte) ([]graphQLError, error) {
		resp = categoryResponse{}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, err
		}
		return resp.Errors, nil
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.ProductCategory, nil
}

// query posts document and hands the body to decode. A rate-limit error is
// retried once after RetryWait; any other GraphQL error is returned as is.
func (c *Client) query(ctx context.Context, op, document string, decode func([]byte) ([]graphQLError, error)) error {
	payload, err := json.Marshal(graphQLRequest{Query: document})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	for attempt := 0; ; attempt++ {
		body, err := c.post(ctx, payload)
		if err != nil {
			observability.APIRequests.WithLabelValues("error").Inc()
			return fmt.Errorf("affiliate %s: %w", op, err)
		}
		errs, err := decode(body)
		if err != nil {
			observability.APIRequests.WithLabelValues("error").Inc()
			return fmt.Errorf("decode %s response: %w", op, err)
		}
		if len(errs) == 0 {
			observability.APIRequests.WithLabelValues("ok").Inc()
			if attempt > 0 {
				log.Printf("[Affiliate] Sucesso no retry de %s", op)
			}
			return nil
		}

		first := errs[0]
		apiErr := &APIError{Op: op, Code: first.Extensions.Code, Message: first.Message, RateLimited: first.rateLimited()}
		if !apiErr.RateLimited || attempt > 0 {
			observability.APIRequests.WithLabelValues("error").Inc()
			return apiErr
		}

		observability.APIRequests.WithLabelValues("rate_limited").Inc()
		log.Printf("[Affiliate] Rate limit em %s, aguardando %s para tentar novamente...", op, c.RetryWait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.RetryWait):
		}
	}
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	ts := now().Unix()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", c.URL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization(c.AppID, ts, Sign(c.AppID, ts, string(payload), c.Secret)))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.URL, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", c.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d from %s: %s", resp.StatusCode, c.URL, truncate(body, 200))
	}
	return body, nil
}

// readBody decodes gzip and brotli bodies the transport left compressed.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	}
	return io.ReadAll(reader)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
