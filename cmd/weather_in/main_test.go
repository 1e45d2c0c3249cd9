package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nbaldzhiev/weather-cli-utility/report"
	"github.com/nbaldzhiev/weather-cli-utility/weather"
)

const metricBody = `{
	"weather": [{"main": "Clouds"}],
	"main": {"temp": 19.24, "feels_like": 17.01, "temp_min": 19, "temp_max": 19.44, "pressure": 1016, "humidity": 68},
	"wind": {"speed": 4.6},
	"clouds": {"all": 100},
	"sys": {"sunrise": 1590980423, "sunset": 1591033578},
	"timezone": 10800,
	"name": "Sofia",
	"cod": 200
}`

const imperialBody = `{
	"weather": [{"main": "Clouds"}],
	"main": {"temp": 66.63, "feels_like": 62.62, "temp_min": 66.2, "temp_max": 66.99, "pressure": 1016, "humidity": 68},
	"wind": {"speed": 10.29},
	"clouds": {"all": 100},
	"sys": {"sunrise": 1590980423, "sunset": 1591033578},
	"timezone": 10800,
	"name": "Los Angeles",
	"cod": 200
}`

// testClient points a client at fake weather and geocoding endpoints.
func testClient(weatherHandler, geoHandler http.HandlerFunc) (*weather.Client, func()) {
	ws := httptest.NewServer(weatherHandler)
	gs := httptest.NewServer(geoHandler)
	c := weather.NewClient("secret", nil)
	c.SetBaseURL(ws.URL)
	c.SetGeoURL(gs.URL)
	return c, func() {
		ws.Close()
		gs.Close()
	}
}

func TestFlagAliases(t *testing.T) {
	Convey("Short and long spellings bind to the same option", t, func() {
		var short, long options
		shortFS := newFlagSet(&short)
		So(shortFS.Parse([]string{"-u", "imperial", "-tf", "12", "-temp", "-feels", "-mood", "-min", "-max", "-sunrise", "-sunset", "-v", "sofia"}), ShouldBeNil)
		longFS := newFlagSet(&long)
		So(longFS.Parse([]string{"--units", "imperial", "--time-format", "12", "--temperature", "--feels-like", "--weather-mood",
			"--min-temperature", "--max-temperature", "--sunrise-time", "--sunset-time", "--verbose", "sofia"}), ShouldBeNil)

		So(short, ShouldResemble, long)
		So(short.units, ShouldEqual, "imperial")
		So(short.timeFormat, ShouldEqual, 12)
		So(short.sel.Temperature, ShouldBeTrue)
		So(short.sel.Verbose, ShouldBeTrue)
		So(shortFS.Args(), ShouldResemble, []string{"sofia"})
	})

	Convey("Long-only flags", t, func() {
		var opts options
		fs := newFlagSet(&opts)
		So(fs.Parse([]string{"--cloudiness", "--pressure", "--humidity", "--wind-speed", "sofia"}), ShouldBeNil)
		So(opts.sel.Cloudiness, ShouldBeTrue)
		So(opts.sel.Pressure, ShouldBeTrue)
		So(opts.sel.Humidity, ShouldBeTrue)
		So(opts.sel.WindSpeed, ShouldBeTrue)
	})

	Convey("Defaults", t, func() {
		var opts options
		fs := newFlagSet(&opts)
		So(fs.Parse([]string{"sofia"}), ShouldBeNil)
		So(opts.units, ShouldEqual, "metric")
		So(opts.timeFormat, ShouldEqual, 24)
	})
}

func TestSplitCityCountry(t *testing.T) {
	Convey("SplitCityCountry", t, func() {
		city, country, err := splitCityCountry("los angeles,us")
		So(err, ShouldBeNil)
		So(city, ShouldEqual, "los angeles")
		So(country, ShouldEqual, "US")

		city, country, err = splitCityCountry("paris,France")
		So(err, ShouldBeNil)
		So(city, ShouldEqual, "paris")
		So(country, ShouldEqual, "FR")

		city, country, err = splitCityCountry("sofia")
		So(err, ShouldBeNil)
		So(city, ShouldEqual, "sofia")
		So(country, ShouldBeEmpty)

		_, _, err = splitCityCountry("vienna,1234567")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "Country 1234567 not found!")
	})
}

func TestRunDefaultReport(t *testing.T) {
	Convey("Unambiguous city, default subset, metric", t, func() {
		client, done := testClient(
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, metricBody)
			},
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[{"name": "Sofia", "country": "BG"}]`)
			})
		defer done()

		var stdout, stderr bytes.Buffer
		opts := options{units: "metric", timeFormat: 24}
		code := run(&opts, []string{"sofia"}, "secret", client, &stdout, &stderr)
		So(code, ShouldEqual, 0)
		So(stderr.String(), ShouldBeEmpty)
		So(stdout.String(), ShouldEqual, "\nThe requested current weather data for sofia is as follows:\n\t"+
			"Current temperature is 19.24 Celsius.\n\t"+
			"Feels-like temperature is 17.01 Celsius.\n\t"+
			"Weather mood is Clouds.\n\t"+
			"Minimum temperature is 19 Celsius.\n\t"+
			"Maximum temperature is 19.44 Celsius.\n\t"+
			"\n")
	})
}

func TestRunDisambiguation(t *testing.T) {
	Convey("Ambiguous city prints guidance and no report", t, func() {
		client, done := testClient(
			func(w http.ResponseWriter, r *http.Request) {
				t.Error("the weather endpoint must not be called for an ambiguous city")
			},
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[
					{"name": "Los Angeles", "country": "US"},
					{"name": "Los Ángeles", "country": "CL"},
					{"name": "Los Angeles", "country": "PH"}
				]`)
			})
		defer done()

		var stdout, stderr bytes.Buffer
		opts := options{units: "imperial", timeFormat: 24, sel: report.Selection{Verbose: true}}
		code := run(&opts, []string{"los", "angeles"}, "secret", client, &stdout, &stderr)
		So(code, ShouldEqual, 0)
		So(stdout.String(), ShouldContainSubstring, "Multiple cities of los angeles have been found in: US, CL, PH.")
		So(stdout.String(), ShouldContainSubstring, "'los angeles,us'")
		So(stdout.String(), ShouldNotContainSubstring, "temperature is")
		So(stderr.String(), ShouldBeEmpty)
	})
}

func TestRunQualifiedVerbose(t *testing.T) {
	Convey("Qualified city skips geocoding and shows all fields", t, func() {
		geoCalled := false
		var gotQ, gotUnits string
		client, done := testClient(
			func(w http.ResponseWriter, r *http.Request) {
				gotQ = r.URL.Query().Get("q")
				gotUnits = r.URL.Query().Get("units")
				fmt.Fprint(w, imperialBody)
			},
			func(w http.ResponseWriter, r *http.Request) {
				geoCalled = true
			})
		defer done()

		var stdout, stderr bytes.Buffer
		opts := options{units: "imperial", timeFormat: 24, sel: report.Selection{Verbose: true}}
		code := run(&opts, []string{"los", "angeles,us"}, "secret", client, &stdout, &stderr)
		So(code, ShouldEqual, 0)
		So(geoCalled, ShouldBeFalse)
		So(gotQ, ShouldEqual, "los angeles,US")
		So(gotUnits, ShouldEqual, "imperial")
		So(stdout.String(), ShouldEqual, "\nThe requested current weather data for los angeles is as follows:\n\t"+
			"Current temperature is 66.63 Fahrenheit.\n\t"+
			"Feels-like temperature is 62.62 Fahrenheit.\n\t"+
			"Weather mood is Clouds.\n\t"+
			"Minimum temperature is 66.2 Fahrenheit.\n\t"+
			"Maximum temperature is 66.99 Fahrenheit.\n\t"+
			"Cloudiness is 100%.\n\t"+
			"Pressure is 1016hPa.\n\t"+
			"Humidity is 68%.\n\t"+
			"Wind speed is 10.29 miles/hour.\n\t"+
			"Sunrise is at 06:00:23.\n\t"+
			"Sunset is at 20:46:18.\n\t"+
			"\n")
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Missing API key fails before any network call", t, func() {
		called := false
		client, done := testClient(
			func(w http.ResponseWriter, r *http.Request) { called = true },
			func(w http.ResponseWriter, r *http.Request) { called = true })
		defer done()

		var stdout, stderr bytes.Buffer
		opts := options{units: "metric", timeFormat: 24}
		code := run(&opts, []string{"sofia"}, "", client, &stdout, &stderr)
		So(code, ShouldEqual, 1)
		So(called, ShouldBeFalse)
		So(stdout.String(), ShouldBeEmpty)
		So(stderr.String(), ShouldEqual, "Error: no API key configured: set the KEY environment variable\n")
	})

	Convey("Invalid units", t, func() {
		var stdout, stderr bytes.Buffer
		opts := options{units: "kelvin", timeFormat: 24}
		code := run(&opts, []string{"sofia"}, "secret", nil, &stdout, &stderr)
		So(code, ShouldEqual, 1)
		So(stderr.String(), ShouldContainSubstring, "allowed values are metric and imperial")
	})

	Convey("Invalid time format", t, func() {
		var stdout, stderr bytes.Buffer
		opts := options{units: "metric", timeFormat: 13}
		code := run(&opts, []string{"sofia"}, "secret", nil, &stdout, &stderr)
		So(code, ShouldEqual, 1)
		So(stderr.String(), ShouldContainSubstring, "allowed values are 12 and 24")
	})

	Convey("City not found", t, func() {
		client, done := testClient(
			func(w http.ResponseWriter, r *http.Request) {
				t.Error("the weather endpoint must not be called for an unknown city")
			},
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[]`)
			})
		defer done()

		var stdout, stderr bytes.Buffer
		opts := options{units: "metric", timeFormat: 24}
		code := run(&opts, []string{"livarpol"}, "secret", client, &stdout, &stderr)
		So(code, ShouldEqual, 1)
		So(stdout.String(), ShouldBeEmpty)
		So(stderr.String(), ShouldEqual, "Error: the city of livarpol has not been found!\n")
	})

	Convey("Missing city argument", t, func() {
		var stdout, stderr bytes.Buffer
		opts := options{units: "metric", timeFormat: 24}
		code := run(&opts, nil, "secret", nil, &stdout, &stderr)
		So(code, ShouldEqual, 2)
		So(stderr.String(), ShouldContainSubstring, "weather_in [OPTIONS] CITY")
	})

	Convey("Unknown country qualifier", t, func() {
		var stdout, stderr bytes.Buffer
		opts := options{units: "metric", timeFormat: 24}
		code := run(&opts, []string{"paris,Atlantis"}, "secret", nil, &stdout, &stderr)
		So(code, ShouldEqual, 1)
		So(stderr.String(), ShouldContainSubstring, "Country Atlantis not found!")
	})
}
