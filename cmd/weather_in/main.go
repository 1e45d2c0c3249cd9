// Command weather_in shows the current weather in a given city in the world.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nbaldzhiev/weather-cli-utility/report"
	"github.com/nbaldzhiev/weather-cli-utility/weather"
)

const usageText = `weather_in [OPTIONS] CITY
Options:
  -u, --units TEXT            metric (default) | imperial
  -tf, --time-format INTEGER  12 | 24 (default)
  -temp, --temperature
  -feels, --feels-like
  -mood, --weather-mood
  -min, --min-temperature
  -max, --max-temperature
  --cloudiness
  --pressure
  --humidity
  --wind-speed
  -sunrise, --sunrise-time
  -sunset, --sunset-time
  -v, --verbose
  --help
`

type options struct {
	units      string
	timeFormat int
	sel        report.Selection
}

// newFlagSet binds both the long and the short spelling of every option to
// one variable.
func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("weather_in", flag.ExitOnError)
	fs.StringVar(&opts.units, "u", "metric", "")
	fs.StringVar(&opts.units, "units", "metric", "")
	fs.IntVar(&opts.timeFormat, "tf", 24, "")
	fs.IntVar(&opts.timeFormat, "time-format", 24, "")

	field := func(p *bool, short, long string) {
		if short != "" {
			fs.BoolVar(p, short, false, "")
		}
		fs.BoolVar(p, long, false, "")
	}
	field(&opts.sel.Temperature, "temp", "temperature")
	field(&opts.sel.FeelsLike, "feels", "feels-like")
	field(&opts.sel.Mood, "mood", "weather-mood")
	field(&opts.sel.MinTemperature, "min", "min-temperature")
	field(&opts.sel.MaxTemperature, "max", "max-temperature")
	field(&opts.sel.Cloudiness, "", "cloudiness")
	field(&opts.sel.Pressure, "", "pressure")
	field(&opts.sel.Humidity, "", "humidity")
	field(&opts.sel.WindSpeed, "", "wind-speed")
	field(&opts.sel.Sunrise, "sunrise", "sunrise-time")
	field(&opts.sel.Sunset, "sunset", "sunset-time")
	field(&opts.sel.Verbose, "v", "verbose")

	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
	}
	return fs
}

func main() {
	var opts options
	fs := newFlagSet(&opts)
	fs.Parse(os.Args[1:])

	// A .env file may carry the provider key; the process environment wins.
	godotenv.Load()
	apiKey := os.Getenv("KEY")

	client := weather.NewClient(apiKey, debugLogger())
	os.Exit(run(&opts, fs.Args(), apiKey, client, os.Stdout, os.Stderr))
}

// run orchestrates one invocation and returns the process exit code: 0 for a
// report or a disambiguation prompt, 1 for any failure, 2 for usage errors.
func run(opts *options, args []string, apiKey string, client *weather.Client, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	units, err := weather.ParseUnits(opts.units)
	if err != nil {
		return fail(stderr, err)
	}
	tf, err := report.ParseTimeFormat(opts.timeFormat)
	if err != nil {
		return fail(stderr, err)
	}
	if apiKey == "" {
		return fail(stderr, weather.ErrMissingAPIKey)
	}

	city, country, err := splitCityCountry(strings.Join(args, " "))
	if err != nil {
		return fail(stderr, err)
	}
	if city == "" {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	if country == "" {
		country, err = client.Resolve(city)
		var amb *weather.AmbiguousError
		if errors.As(err, &amb) {
			printDisambiguation(stdout, amb)
			return 0
		}
		if err != nil {
			return fail(stderr, err)
		}
	}

	rep, err := client.FetchCurrent(city, country, units)
	if err != nil {
		return fail(stderr, err)
	}

	fmt.Fprint(stdout, report.Render(rep, opts.sel, units, tf))
	return 0
}

// splitCityCountry splits an inline country qualifier off the city argument
// and normalizes it to an alpha-2 code.
func splitCityCountry(arg string) (string, string, error) {
	city, country, found := strings.Cut(arg, ",")
	city = strings.TrimSpace(city)
	if !found {
		return city, "", nil
	}
	code, err := weather.NormalizeCountry(country)
	if err != nil {
		return "", "", err
	}
	return city, code, nil
}

func printDisambiguation(w io.Writer, amb *weather.AmbiguousError) {
	fmt.Fprintf(w, "Multiple cities of %s have been found in: %s.\n", amb.City, strings.Join(amb.Countries, ", "))
	fmt.Fprintf(w, "Please run again with a country qualifier, e.g. '%s,%s', using a country name or a 2-letter ISO-3166-1 code.\n",
		amb.City, strings.ToLower(amb.Countries[0]))
}

func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}

// debugLogger enables request tracing inside the client when WEATHER_IN_DEBUG
// is set. The report on stdout is never touched.
func debugLogger() *zap.Logger {
	if os.Getenv("WEATHER_IN_DEBUG") == "" {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
