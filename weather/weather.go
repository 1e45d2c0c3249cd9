// Package weather is a client for the OpenWeatherMap current-conditions API.
package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	baseURL = "https://api.openweathermap.org/data/2.5/weather"
	geoURL  = "https://api.openweathermap.org/geo/1.0/direct"
)

// Units selects the measurement system the provider reports in.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits validates a raw units flag value.
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case Metric, Imperial:
		return Units(s), nil
	}
	return "", fmt.Errorf("invalid units %q: allowed values are metric and imperial", s)
}

// Report holds the current conditions for one city. Fields the provider did
// not return are nil and skipped when rendering.
type Report struct {
	City       string
	Temp       *float64
	FeelsLike  *float64
	Mood       string
	TempMin    *float64
	TempMax    *float64
	Cloudiness *int
	Pressure   *int
	Humidity   *int
	WindSpeed  *float64
	Sunrise    *time.Time
	Sunset     *time.Time
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	geoURL     string
	apiKey     string
	log        *zap.Logger
}

// NewClient builds a provider client. A nil logger disables debug tracing.
func NewClient(apiKey string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		geoURL:  geoURL,
		apiKey:  apiKey,
		log:     log,
	}
}

// SetBaseURL overrides the current-weather endpoint (useful for testing).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// SetGeoURL overrides the geocoding endpoint (useful for testing).
func (c *Client) SetGeoURL(u string) {
	c.geoURL = u
}

// SetHTTPClient swaps the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.httpClient = h
}

type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		TempMin   *float64 `json:"temp_min"`
		TempMax   *float64 `json:"temp_max"`
		Pressure  *int     `json:"pressure"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Clouds *struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Sys *struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
	// Shift in seconds from UTC for the city's local time.
	Timezone int `json:"timezone"`
}

// FetchCurrent issues one GET for the current weather in city, optionally
// qualified with an ISO-3166-1 alpha-2 country code.
func (c *Client) FetchCurrent(city, country string, units Units) (*Report, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := city
	if country != "" {
		q = city + "," + country
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse base URL: %v", err)
	}
	v := u.Query()
	v.Set("q", q)
	v.Set("units", string(units))
	v.Set("appid", c.apiKey)
	u.RawQuery = v.Encode()

	c.log.Debug("fetching current weather", zap.String("q", q), zap.String("units", string(units)))

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return nil, &ProviderError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("Failed to read body: %v", err)}
	}
	c.log.Debug("provider response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{City: city, Country: country}
	case resp.StatusCode != http.StatusOK:
		return nil, &ProviderError{StatusCode: resp.StatusCode, Detail: providerMessage(data)}
	}

	var m currentResponse
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &FormatError{Detail: err.Error()}
	}
	return m.report(city), nil
}

// providerMessage pulls the human-readable message out of an error body, if
// the provider sent one.
func providerMessage(data []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(data))
}

func (m *currentResponse) report(city string) *Report {
	r := &Report{City: city}
	if len(m.Weather) > 0 {
		r.Mood = m.Weather[0].Main
	}
	if m.Main != nil {
		r.Temp = m.Main.Temp
		r.FeelsLike = m.Main.FeelsLike
		r.TempMin = m.Main.TempMin
		r.TempMax = m.Main.TempMax
		r.Pressure = m.Main.Pressure
		r.Humidity = m.Main.Humidity
	}
	if m.Wind != nil {
		r.WindSpeed = m.Wind.Speed
	}
	if m.Clouds != nil {
		r.Cloudiness = m.Clouds.All
	}
	if m.Sys != nil {
		loc := time.FixedZone("", m.Timezone)
		if m.Sys.Sunrise != nil {
			t := time.Unix(*m.Sys.Sunrise, 0).In(loc)
			r.Sunrise = &t
		}
		if m.Sys.Sunset != nil {
			t := time.Unix(*m.Sys.Sunset, 0).In(loc)
			r.Sunset = &t
		}
	}
	return r
}
