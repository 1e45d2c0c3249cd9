package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// geoLimit caps the number of candidate locations requested from the provider.
const geoLimit = 5

// Location is one geocoding candidate for a city name.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate asks the provider's geocoding endpoint for candidate locations
// matching an unqualified city name.
func (c *Client) Locate(city string) ([]Location, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	u, err := url.Parse(c.geoURL)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse geocoding URL: %v", err)
	}
	v := u.Query()
	v.Set("q", city)
	v.Set("limit", strconv.Itoa(geoLimit))
	v.Set("appid", c.apiKey)
	u.RawQuery = v.Encode()

	c.log.Debug("geocoding city", zap.String("q", city))

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return nil, &ProviderError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("Failed to read body: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Detail: providerMessage(data)}
	}

	var locs []Location
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, &FormatError{Detail: err.Error()}
	}
	c.log.Debug("geocoding candidates", zap.Int("count", len(locs)))
	return locs, nil
}

// Resolve maps an unqualified city name to a single country code. It returns
// AmbiguousError when candidates span more than one country and NotFoundError
// when there are none.
func (c *Client) Resolve(city string) (string, error) {
	locs, err := c.Locate(city)
	if err != nil {
		return "", err
	}
	if len(locs) == 0 {
		return "", &NotFoundError{City: city}
	}
	countries := distinctCountries(locs)
	if len(countries) > 1 {
		return "", &AmbiguousError{City: city, Countries: countries}
	}
	return countries[0], nil
}

// distinctCountries keeps first-appearance order.
func distinctCountries(locs []Location) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, l := range locs {
		if !seen[l.Country] {
			seen[l.Country] = true
			ret = append(ret, l.Country)
		}
	}
	return ret
}
