package domain

import "time"

// rainStates are the weather_state_abbr codes that mean rain.
var rainStates = map[string]bool{
	"hr": true, // heavy rain
	"lr": true, // light rain
	"s":  true, // showers
	"t":  true, // thunderstorm
}

// frozenStates are precipitation that is not rain.
var frozenStates = map[string]bool{
	"sn": true,
	"sl": true,
	"h":  true,
}

// dryStates are the remaining documented weather_state_abbr codes.
var dryStates = map[string]bool{
	"hc": true, // heavy cloud
	"lc": true, // light cloud
	"c":  true, // clear
}

// IsKnownWeatherState reports whether abbr is one of the ten documented
// weather_state_abbr codes.
func IsKnownWeatherState(abbr string) bool {
	return rainStates[abbr] || frozenStates[abbr] || dryStates[abbr]
}

// WillRain reports whether the day's weather state is a rain state.
func WillRain(day DayForecast) bool {
	return rainStates[day.WeatherStateAbbr]
}

// WillPrecipitate reports whether any precipitation (rain, snow, sleet or
// hail) is expected.
func WillPrecipitate(day DayForecast) bool {
	return rainStates[day.WeatherStateAbbr] || frozenStates[day.WeatherStateAbbr]
}

// RainReport is the answer for one resolved location.
type RainReport struct {
	CheckID        string    `json:"check_id"`
	WOEID          int64     `json:"woeid"`
	Title          string    `json:"title"`
	Parent         string    `json:"parent,omitempty"`
	Date           string    `json:"date"`
	State          string    `json:"state"`
	StateAbbr      string    `json:"state_abbr"`
	Predictability int       `json:"predictability"`
	Rain           bool      `json:"rain"`
	Precipitation  bool      `json:"precipitation"`
	MinTemp        float64   `json:"min_temp"`
	MaxTemp        float64   `json:"max_temp"`
	CheckedAt      time.Time `json:"checked_at"`
}

// NewRainReport builds the report for a location and its day record,
// stamped with the package clock.
func NewRainReport(checkID string, info LocationInfo, day DayForecast) RainReport {
	r := RainReport{
		CheckID:        checkID,
		WOEID:          info.WOEID,
		Title:          info.Title,
		Date:           day.ApplicableDate,
		State:          day.WeatherStateName,
		StateAbbr:      day.WeatherStateAbbr,
		Predictability: day.Predictability,
		Rain:           WillRain(day),
		Precipitation:  WillPrecipitate(day),
		MinTemp:        day.MinTemp,
		MaxTemp:        day.MaxTemp,
		CheckedAt:      clock.Now().UTC(),
	}
	if info.Parent != nil {
		r.Parent = info.Parent.Title
	}
	return r
}
