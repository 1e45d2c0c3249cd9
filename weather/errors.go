package weather

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned before any network call when no provider key is
// configured.
var ErrMissingAPIKey = errors.New("no API key configured: set the KEY environment variable")

// NotFoundError means the provider does not know the requested city, optionally
// within the requested country.
type NotFoundError struct {
	City    string
	Country string
}

func (e *NotFoundError) Error() string {
	if e.Country != "" {
		return fmt.Sprintf("the city of %s has not been found in the country of %s!", e.City, e.Country)
	}
	return fmt.Sprintf("the city of %s has not been found!", e.City)
}

// AmbiguousError means the city name matched locations in more than one country
// and a qualifier is needed to pick one.
type AmbiguousError struct {
	City      string
	Countries []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("multiple cities of %s have been found in: %s", e.City, strings.Join(e.Countries, ", "))
}

// ProviderError covers transport failures and unexpected HTTP statuses.
type ProviderError struct {
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("unsuccessful call to the API service: HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("unsuccessful call to the API service: %s", e.Detail)
}

// FormatError means the provider answered 200 with a body that could not be
// decoded.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unexpected response from the API service: %s", e.Detail)
}
