package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Source is one upstream provider MetaWeather consolidates.
type Source struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	URL       string `json:"url"`
	CrawlRate int    `json:"crawl_rate"`
}

// LocationInfo is a forecast bundle without its day records. When decoded
// from JSON it keeps the object as received and encodes back to exactly
// that object, including keys with no typed field and keys that were absent.
type LocationInfo struct {
	Title        string    `json:"title"`
	LocationType string    `json:"location_type"`
	WOEID        int64     `json:"woeid"`
	LattLong     string    `json:"latt_long"`
	Time         string    `json:"time"` // RFC 3339 in the location's offset
	SunRise      string    `json:"sun_rise,omitempty"`
	SunSet       string    `json:"sun_set,omitempty"`
	TimezoneName string    `json:"timezone_name,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	Parent       *Location `json:"parent,omitempty"`
	Sources      []Source  `json:"sources,omitempty"`

	raw map[string]json.RawMessage
}

// DayForecast is one day's consolidated weather record. Like LocationInfo
// it encodes back to the object as received, so a null reading stays null
// even though the typed field holds zero.
type DayForecast struct {
	ID                   int64   `json:"id"`
	WeatherStateName     string  `json:"weather_state_name"`
	WeatherStateAbbr     string  `json:"weather_state_abbr"`
	WindDirectionCompass string  `json:"wind_direction_compass"`
	Created              string  `json:"created"`
	ApplicableDate       string  `json:"applicable_date"` // YYYY-MM-DD
	MinTemp              float64 `json:"min_temp"`
	MaxTemp              float64 `json:"max_temp"`
	TheTemp              float64 `json:"the_temp"`
	WindSpeed            float64 `json:"wind_speed"`
	WindDirection        float64 `json:"wind_direction"`
	AirPressure          float64 `json:"air_pressure"`
	Humidity             float64 `json:"humidity"`
	Visibility           float64 `json:"visibility"`
	Predictability       int     `json:"predictability"`

	raw map[string]json.RawMessage
}

// ForecastBundle is the full forecast payload for one location.
type ForecastBundle struct {
	LocationInfo
	ConsolidatedWeather []DayForecast `json:"consolidated_weather"`
}

// The field types below carry the json tags without the codec methods.
type (
	locationInfoFields LocationInfo
	dayForecastFields  DayForecast
)

func (l *LocationInfo) UnmarshalJSON(data []byte) error {
	var fields locationInfoFields
	raw, err := decodeKeepingRaw(data, &fields)
	if err != nil {
		return err
	}
	*l = LocationInfo(fields)
	l.raw = raw
	return nil
}

func (l LocationInfo) MarshalJSON() ([]byte, error) {
	if l.raw != nil {
		return json.Marshal(l.raw)
	}
	return json.Marshal(locationInfoFields(l))
}

func (d *DayForecast) UnmarshalJSON(data []byte) error {
	var fields dayForecastFields
	raw, err := decodeKeepingRaw(data, &fields)
	if err != nil {
		return err
	}
	*d = DayForecast(fields)
	d.raw = raw
	return nil
}

func (d DayForecast) MarshalJSON() ([]byte, error) {
	if d.raw != nil {
		return json.Marshal(d.raw)
	}
	return json.Marshal(dayForecastFields(d))
}

// UnmarshalJSON splits the payload into the day list and the location info,
// whose raw object no longer holds consolidated_weather.
func (b *ForecastBundle) UnmarshalJSON(data []byte) error {
	var days struct {
		ConsolidatedWeather []DayForecast `json:"consolidated_weather"`
	}
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	var info LocationInfo
	if err := info.UnmarshalJSON(data); err != nil {
		return err
	}
	delete(info.raw, "consolidated_weather")

	b.LocationInfo = info
	b.ConsolidatedWeather = days.ConsolidatedWeather
	return nil
}

func (b ForecastBundle) MarshalJSON() ([]byte, error) {
	info, err := b.LocationInfo.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(info, &obj); err != nil {
		return nil, err
	}
	days, err := json.Marshal(b.ConsolidatedWeather)
	if err != nil {
		return nil, err
	}
	obj["consolidated_weather"] = days
	return json.Marshal(obj)
}

// decodeKeepingRaw decodes data into typed and also returns the object's
// members verbatim.
func decodeKeepingRaw(data []byte, typed any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// LocalDate returns the calendar date of an RFC 3339 timestamp in the
// timestamp's own UTC offset.
func LocalDate(timestamp string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return "", fmt.Errorf("parse local time %q: %w", timestamp, err)
	}
	return t.Format(time.DateOnly), nil
}

// ExtractToday finds the day record for the bundle's local date and splits
// the bundle into its location info and that record. The bundle's day list
// is consumed: it is nil after a successful extraction.
func ExtractToday(bundle *ForecastBundle) (LocationInfo, DayForecast, error) {
	today, err := LocalDate(bundle.Time)
	if err != nil {
		return LocationInfo{}, DayForecast{}, &RemoteServiceError{Message: BadContentMessage, Err: err}
	}

	for _, day := range bundle.ConsolidatedWeather {
		if day.ApplicableDate == today {
			bundle.ConsolidatedWeather = nil
			return bundle.LocationInfo, day, nil
		}
	}
	return LocationInfo{}, DayForecast{}, &NoForecastForTodayError{Date: today}
}

// ForecastSource fetches a location's forecast and extracts today's record.
type ForecastSource interface {
	TodaysForecast(ctx context.Context, woeid int64) (LocationInfo, DayForecast, error)
}

// WeatherService resolves locations and fetches their forecasts.
type WeatherService interface {
	LocationResolver
	ForecastSource
}
