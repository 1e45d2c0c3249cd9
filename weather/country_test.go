package weather

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeCountry(t *testing.T) {
	Convey("Codes", t, func() {
		for _, q := range []string{"FR", "fr", "fR"} {
			code, err := NormalizeCountry(q)
			So(err, ShouldBeNil)
			So(code, ShouldEqual, "FR")
		}
	})

	Convey("Names", t, func() {
		cases := map[string]string{
			"France":          "FR",
			"france":          "FR",
			"fRaNcE":          "FR",
			"United Kingdom":  "GB",
			"united kingdom":  "GB",
			"uNiTeD kInGdOm":  "GB",
			"Bulgaria":        "BG",
			"United States":   "US",
			" United States ": "US",
		}
		for q, want := range cases {
			code, err := NormalizeCountry(q)
			So(err, ShouldBeNil)
			So(code, ShouldEqual, want)
		}
	})

	Convey("Unknown", t, func() {
		for _, q := range []string{" ", "1234567", "!@#$%^*", "zz", "Atlantis"} {
			_, err := NormalizeCountry(q)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "ISO-3166-1")
		}
	})
}

func TestCountryName(t *testing.T) {
	Convey("CountryName", t, func() {
		So(CountryName("BG"), ShouldEqual, "Bulgaria")
		So(CountryName("us"), ShouldEqual, "United States")
		So(CountryName("ZZ"), ShouldEqual, "ZZ")
	})
}
