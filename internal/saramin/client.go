package saramin

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL     = "https://oapi.saramin.co.kr"
	searchPath = "/job-search"
	// Max value the open API accepts per page.
	perPage = 100
	// The open API throttles aggressive clients; stay politely under the limit.
	requestsPerSecond = 4
)

// Client talks to the Saramin open job-search API.
type Client struct {
	// ctx used only for http requests right now
	ctx       context.Context
	accessKey string
	logger    *zap.Logger

	HTTPClient *http.Client
	APIURL     string
	Limiter    *rate.Limiter
}

// New creates a Saramin API client.
func New(ctx context.Context, logger *zap.Logger, accessKey string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		ctx:       ctx,
		accessKey: accessKey,
		logger:    logger,
		APIURL:    apiURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// getJSON performs one GET request and decodes the JSON body into target.
func (c *Client) getJSON(path string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	q.Set("access-key", c.accessKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	c.logger.Debug("make request", zap.String("url", req.URL.Redacted()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.NewDecoder(reader).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
