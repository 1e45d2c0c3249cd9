// Package report renders a weather report as the fixed-order lines shown to
// the user.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nbaldzhiev/weather-cli-utility/weather"
)

// TimeFormat selects the clock convention for sunrise/sunset.
type TimeFormat int

const (
	Clock24 TimeFormat = 24
	Clock12 TimeFormat = 12
)

// ParseTimeFormat validates a raw time-format flag value.
func ParseTimeFormat(n int) (TimeFormat, error) {
	switch n {
	case 12:
		return Clock12, nil
	case 24:
		return Clock24, nil
	}
	return 0, fmt.Errorf("invalid time format %d: allowed values are 12 and 24", n)
}

// Selection is the set of fields the user asked for. An empty selection shows
// the default subset; Verbose shows everything.
type Selection struct {
	Temperature    bool
	FeelsLike      bool
	Mood           bool
	MinTemperature bool
	MaxTemperature bool
	Cloudiness     bool
	Pressure       bool
	Humidity       bool
	WindSpeed      bool
	Sunrise        bool
	Sunset         bool
	Verbose        bool
}

var all = Selection{
	Temperature:    true,
	FeelsLike:      true,
	Mood:           true,
	MinTemperature: true,
	MaxTemperature: true,
	Cloudiness:     true,
	Pressure:       true,
	Humidity:       true,
	WindSpeed:      true,
	Sunrise:        true,
	Sunset:         true,
}

var defaults = Selection{
	Temperature:    true,
	FeelsLike:      true,
	Mood:           true,
	MinTemperature: true,
	MaxTemperature: true,
}

func (s Selection) empty() bool {
	return s == Selection{}
}

// effective resolves the verbose flag and the default subset.
func (s Selection) effective() Selection {
	if s.Verbose {
		return all
	}
	s.Verbose = false
	if s.empty() {
		return defaults
	}
	return s
}

// Render produces the report text: a header naming the city, then one
// tab-indented line per selected field that the provider returned, in fixed
// order.
func Render(r *weather.Report, sel Selection, units weather.Units, tf TimeFormat) string {
	eff := sel.effective()

	tempUnit := "Celsius"
	windUnit := "meter/sec"
	if units == weather.Imperial {
		tempUnit = "Fahrenheit"
		windUnit = "miles/hour"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nThe requested current weather data for %s is as follows:\n\t", r.City)
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n\t")
	}

	if eff.Temperature && r.Temp != nil {
		line("Current temperature is %s %s.", num(*r.Temp), tempUnit)
	}
	if eff.FeelsLike && r.FeelsLike != nil {
		line("Feels-like temperature is %s %s.", num(*r.FeelsLike), tempUnit)
	}
	if eff.Mood && r.Mood != "" {
		line("Weather mood is %s.", r.Mood)
	}
	if eff.MinTemperature && r.TempMin != nil {
		line("Minimum temperature is %s %s.", num(*r.TempMin), tempUnit)
	}
	if eff.MaxTemperature && r.TempMax != nil {
		line("Maximum temperature is %s %s.", num(*r.TempMax), tempUnit)
	}
	if eff.Cloudiness && r.Cloudiness != nil {
		line("Cloudiness is %d%%.", *r.Cloudiness)
	}
	if eff.Pressure && r.Pressure != nil {
		line("Pressure is %dhPa.", *r.Pressure)
	}
	if eff.Humidity && r.Humidity != nil {
		line("Humidity is %d%%.", *r.Humidity)
	}
	if eff.WindSpeed && r.WindSpeed != nil {
		line("Wind speed is %s %s.", num(*r.WindSpeed), windUnit)
	}
	if eff.Sunrise && r.Sunrise != nil {
		line("Sunrise is at %s.", clock(*r.Sunrise, tf))
	}
	if eff.Sunset && r.Sunset != nil {
		line("Sunset is at %s.", clock(*r.Sunset, tf))
	}
	b.WriteString("\n")
	return b.String()
}

// num renders a value without trailing zeros, so 19.0 prints as 19.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clock(t time.Time, tf TimeFormat) string {
	if tf == Clock12 {
		return t.Format("03:04:05 PM")
	}
	return t.Format("15:04:05")
}
