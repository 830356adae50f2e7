package gnss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Client is the HTTP implementation of PositionSource, VehicleLocator and Simulator.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client for the service at baseURL.
// A nil httpClient gets a default one with a short timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type lngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Position fetches the latest fix from /get/lnglat.
func (c *Client) Position(ctx context.Context) (orb.Point, error) {
	var pos *lngLat
	if err := c.get(ctx, "/get/lnglat", nil, &pos); err != nil {
		return orb.Point{}, err
	}
	if pos == nil {
		return orb.Point{}, ErrNoFix
	}
	return orb.Point{pos.Lng, pos.Lat}, nil
}

// SetVehicle pushes a WGS-84 position to /update/loc/.
func (c *Client) SetVehicle(ctx context.Context, p orb.Point) error {
	q := url.Values{}
	q.Set("lng", strconv.FormatFloat(p.Lon(), 'f', -1, 64))
	q.Set("lat", strconv.FormatFloat(p.Lat(), 'f', -1, 64))
	return c.get(ctx, "/update/loc/", q, nil)
}

// Start asks the service to start the simulator.
func (c *Client) Start(ctx context.Context) error {
	return c.get(ctx, "/start", nil, nil)
}

// Stop asks the service to stop the simulator.
func (c *Client) Stop(ctx context.Context) error {
	return c.get(ctx, "/stop", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gnss %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gnss %s: status %d", path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gnss %s: decode: %w", path, err)
	}

	return nil
}
