package dexcom

import (
	"bytes"
	"context"
	"dexwatch/watcher/defs"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	appID            = "d89443d2-327c-4a6f-89e5-496bbb0317db"
	loginEndpoint    = "General/LoginPublisherAccountByName"
	readingsEndpoint = "Publisher/ReadPublisherLatestGlucoseValues"

	// A reading is published roughly every five minutes; a ten minute
	// window with a single slot is enough for the most recent one.
	latestWindowMinutes = 10
)

// Share API hosts per region.
var baseURLs = map[string]string{
	"us":  "https://share2.dexcom.com/ShareWebServices/Services",
	"ous": "https://shareous1.dexcom.com/ShareWebServices/Services",
	"jp":  "https://share.dexcom.jp/ShareWebServices/Services",
}

type trendText struct {
	description string
	arrow       string
}

var trendTexts = map[string]trendText{
	"None":           {"", ""},
	"DoubleUp":       {"rising quickly", "↑↑"},
	"SingleUp":       {"rising", "↑"},
	"FortyFiveUp":    {"rising slightly", "↗"},
	"Flat":           {"steady", "→"},
	"FortyFiveDown":  {"falling slightly", "↘"},
	"SingleDown":     {"falling", "↓"},
	"DoubleDown":     {"falling quickly", "↓↓"},
	"NotComputable":  {"unable to determine trend", "?"},
	"RateOutOfRange": {"trend unavailable", "-"},
}

type Client struct {
	client      *http.Client
	logger      *zap.Logger
	baseURL     string
	accountName string
	password    string
	sessionID   string
}

type Source interface {
	Latest(ctx context.Context) (*defs.Reading, error)
}

type LoginRequest struct {
	AccountName   string `json:"accountName"`
	Password      string `json:"password"`
	ApplicationID string `json:"applicationId"`
}

type reading struct {
	WT          string  `json:"WT"`
	SystemTime  string  `json:"ST"`
	DisplayTime string  `json:"DT"`
	Value       float64 `json:"Value"`
	Trend       string  `json:"Trend"`
}

func New(cfg defs.DexcomConfig, logger *zap.Logger) (*Client, error) {
	region := strings.ToLower(cfg.Region)
	if region == "" {
		region = "us"
	}
	base, ok := baseURLs[region]
	if !ok {
		return nil, fmt.Errorf("unknown dexcom region: %s", cfg.Region)
	}

	return &Client{
		client:      &http.Client{},
		logger:      logger,
		baseURL:     base,
		accountName: cfg.Account,
		password:    cfg.Password,
	}, nil
}

// Latest fetches the most recent reading from Dexcom's Share API.
// Automatically creates a new session when it expires.
func (c *Client) Latest(ctx context.Context) (*defs.Reading, error) {
	rs, err := c.readings(ctx, latestWindowMinutes, 1)
	if err != nil {
		if _, err := c.CreateSession(ctx); err != nil {
			return nil, err
		}
		if rs, err = c.readings(ctx, latestWindowMinutes, 1); err != nil {
			return nil, err
		}
	}
	if len(rs) == 0 {
		return nil, fmt.Errorf("no readings in the last %d minutes", latestWindowMinutes)
	}
	return rs[0], nil
}

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	lreq := &LoginRequest{
		AccountName:   c.accountName,
		Password:      c.password,
		ApplicationID: appID,
	}

	b, err := json.Marshal(lreq)
	if err != nil {
		return "", err
	}

	c.logger.Debug("making login request for sessionID",
		zap.String("account", c.accountName),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+loginEndpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d from share login", resp.StatusCode)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	c.sessionID = strings.Trim(string(body), "\"")

	c.logger.Debug("successfully obtained sessionID",
		zap.String("sessionID", c.sessionID),
	)

	return c.sessionID, nil
}

func (c *Client) readings(ctx context.Context, minutes, maxCount int) ([]*defs.Reading, error) {
	params := url.Values{
		"sessionId": {c.sessionID},
		"minutes":   {strconv.Itoa(minutes)},
		"maxCount":  {strconv.Itoa(maxCount)},
	}

	c.logger.Debug("making fetch request",
		zap.String("sessionID", c.sessionID),
		zap.Int("minutes", minutes),
		zap.Int("maximum count", maxCount),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+readingsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var readings []*reading

	err = json.NewDecoder(resp.Body).Decode(&readings)
	if err != nil {
		c.logger.Debug("failed to decode readings response")
		return nil, err
	}

	c.logger.Debug("received readings from share API",
		zap.Int("count", len(readings)),
	)

	rs := make([]*defs.Reading, len(readings))
	for i, r := range readings {
		tr, err := transform(r)
		if err != nil {
			return nil, err
		}
		rs[i] = tr
	}

	return rs, nil
}

func transform(r *reading) (*defs.Reading, error) {
	if len(r.WT) < 6 {
		return nil, fmt.Errorf("malformed reading timestamp: %q", r.WT)
	}
	parsedTime := strings.Trim(r.WT[4:], "()")
	unixMs, err := strconv.ParseInt(parsedTime, 10, 64)
	if err != nil {
		return nil, err
	}

	text := trendTexts[r.Trend]
	return &defs.Reading{
		Time:             time.Unix(unixMs/1000, 0).UTC(),
		MgDL:             r.Value,
		TrendDescription: text.description,
		TrendArrow:       text.arrow,
	}, nil
}
