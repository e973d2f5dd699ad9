package nightscout

import (
	"bytes"
	"context"
	"dexwatch/watcher/defs"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const entriesEndpoint = "/api/v1/entries"

// Result is the outcome of a single forward attempt.
type Result int

const (
	Delivered Result = iota
	Skipped
	Failed
)

func (r Result) String() string {
	return [...]string{"delivered", "skipped", "failed"}[r]
}

type Entry struct {
	DateString string  `json:"dateString"`
	SGV        float64 `json:"sgv"`
	Direction  string  `json:"direction"`
	Type       string  `json:"type"`
}

// Client forwards readings to a Nightscout-compatible sink. A client with an
// empty URL is in no-op mode and never touches the network.
type Client struct {
	client    *http.Client
	logger    *zap.Logger
	url       string
	apiSecret string
}

func New(cfg defs.NightscoutConfig, logger *zap.Logger) *Client {
	return &Client{
		client:    &http.Client{},
		logger:    logger,
		url:       cfg.URL,
		apiSecret: cfg.APISecret,
	}
}

// Forward submits a reading as a one-element entry batch. Best-effort: one
// attempt per call, no retry or queuing.
func (c *Client) Forward(ctx context.Context, r *defs.Reading) (Result, error) {
	if c.url == "" {
		return Skipped, nil
	}

	entry := Entry{
		DateString: r.Time.UTC().Format(time.RFC3339),
		SGV:        r.MgDL,
		Direction:  r.TrendArrow,
		Type:       "sgv",
	}

	b, err := json.Marshal([]Entry{entry})
	if err != nil {
		return Failed, err
	}

	c.logger.Debug("forwarding entry to remote sink",
		zap.ByteString("entry", b),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+entriesEndpoint, bytes.NewBuffer(b))
	if err != nil {
		return Failed, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-secret", c.apiSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return Failed, fmt.Errorf("unable to reach remote sink: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failed, fmt.Errorf("unexpected status %d from remote sink", resp.StatusCode)
	}

	return Delivered, nil
}
