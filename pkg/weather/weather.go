// Package weather fetches current conditions from OpenWeatherMap. Responses
// are cached per location so repeated queries for the same village do not
// burn through the free API quota.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"krishigo/pkg/config"
	"krishigo/pkg/request"
)

// ErrNoCredential is returned when no API key is configured. Callers turn it
// into a degraded message, never a failed request.
var ErrNoCredential = errors.New("weather: no API key configured")

// Report is the subset of OpenWeatherMap data surfaced to farmers.
type Report struct {
	Location    string
	Description string
	TempC       float64
	HumidityPct int
}

// Service answers current-weather queries.
type Service interface {
	Current(ctx context.Context, location string) (*Report, error)
}

// Client implements Service against the OpenWeatherMap API.
type Client struct {
	cfg config.WeatherConfig
	rc  *request.Client
}

// NewClient creates a weather client.
func NewClient(cfg config.WeatherConfig, rc *request.Client) *Client {
	return &Client{cfg: cfg, rc: rc}
}

// owmResponse mirrors the fields we read from the OpenWeatherMap payload.
type owmResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Cod     any    `json:"cod"` // OWM sends int on success, string on errors
	Message string `json:"message"`
}

// Current fetches the weather for location, falling back to the configured
// default location when empty.
func (c *Client) Current(ctx context.Context, location string) (*Report, error) {
	if c.cfg.Key == "" {
		return nil, ErrNoCredential
	}
	if location == "" {
		location = c.cfg.DefaultLocation
	}

	timeout := c.cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		c.cfg.BaseURL, url.QueryEscape(location), url.QueryEscape(c.cfg.Key))

	body, err := c.rc.Get(ctx, u, "weather:"+location)
	if err != nil {
		return nil, fmt.Errorf("weather fetch for %q: %w", location, err)
	}

	var resp owmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("weather parse for %q: %w", location, err)
	}
	if len(resp.Weather) == 0 {
		if resp.Message != "" {
			return nil, fmt.Errorf("weather lookup for %q: %s", location, resp.Message)
		}
		return nil, fmt.Errorf("weather lookup for %q: empty response", location)
	}

	name := resp.Name
	if name == "" {
		name = location
	}
	return &Report{
		Location:    name,
		Description: resp.Weather[0].Description,
		TempC:       resp.Main.Temp,
		HumidityPct: resp.Main.Humidity,
	}, nil
}

// Summary renders a report as the one-line answer the resolver speaks.
func (r *Report) Summary() string {
	return fmt.Sprintf("Weather in %s: %s, Temperature: %.1f°C, Humidity: %d%%",
		r.Location, r.Description, r.TempC, r.HumidityPct)
}
