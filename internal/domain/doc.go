// Package domain models MetaWeather location and forecast data and decides
// whether it will rain today at a location.
//
// # Data Source
//
// Locations and forecasts come from the MetaWeather public API
// (https://www.metaweather.com/api/). A free-text search returns a JSON
// array of location records ordered by relevance; each record carries a
// WOEID (Where On Earth IDentifier) used to fetch that location's forecast
// bundle.
//
// # MetaWeather Data Conventions
//
// Coordinates:
//
//	"latt_long" is a single string "<lat>,<long>", e.g. "40.71455,-74.007118".
//	It is kept verbatim on [Location] and parsed on demand by [ParseCoordinates].
//
// Local time:
//
//	The bundle's "time" field is RFC 3339 with the location's own UTC offset,
//	e.g. "2019-08-26T08:35:20.417023-04:00". Today's date is the calendar date
//	of that timestamp in that offset. No other timezone conversion is applied,
//	so the caller's clock never influences which day is "today".
//
// Day records:
//
//	"consolidated_weather" holds one record per day (usually six, today first).
//	"applicable_date" is a plain "YYYY-MM-DD" date. Upstream may, in principle,
//	repeat a date; the first record for a date wins.
//
// Weather states:
//
//	"weather_state_abbr" is one of: sn (snow), sl (sleet), h (hail),
//	t (thunderstorm), hr (heavy rain), lr (light rain), s (showers),
//	hc (heavy cloud), lc (light cloud), c (clear).
//	Rain means hr, lr, s or t. Snow, sleet and hail are precipitation but not
//	rain. See [WillRain].
//
// # Error Taxonomy
//
// Four outcomes are reported to callers and never retried:
// [RemoteServiceError] for upstream failures, [ErrLocationNotFound] and
// [ErrTooManyLocations] for ambiguous queries, and [NoForecastForTodayError]
// when the bundle has no record for the local date.
package domain
