package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/cart-manager/internal/domain"
)

// Client talks to the catalog service over HTTP JSON:
//
//	GET {base}/stock/{id}    -> {"id": 1, "amount": 5}
//	GET {base}/products/{id} -> {"id": 1, "title": "...", "price": 9.9, "image": "..."}
//
// Requests go through a circuit breaker so a flapping catalog fails fast,
// and concurrent lookups for the same product are deduplicated.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group // Prevents duplicate in-flight lookups for one product
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "catalog",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing product is an answer, not a catalog outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProductNotFound)
		},
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (c *Client) StockFor(ctx context.Context, productID int64) (domain.Stock, error) {
	key := fmt.Sprintf("stock:%d", productID)
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		var stock domain.Stock
		if err := c.getJSON(ctx, fmt.Sprintf("/stock/%d", productID), &stock); err != nil {
			return domain.Stock{}, err
		}
		return stock, nil
	})
	if err != nil {
		return domain.Stock{}, err
	}
	return v.(domain.Stock), nil
}

func (c *Client) ProductFor(ctx context.Context, productID int64) (domain.Product, error) {
	key := fmt.Sprintf("product:%d", productID)
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		var product domain.Product
		if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", productID), &product); err != nil {
			return domain.Product{}, err
		}
		return product, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build request failed: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode catalog response failed: %w", err)
	}
	return nil
}
