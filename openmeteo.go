// Package openmeteo is a client for the Open-Meteo weather API.
//
// It fetches historical, forecast, and current weather data with two-tier
// caching: historical months are persisted as JSON files (past weather never
// changes upstream, so the cache accumulates indefinitely and only missing
// months are fetched), while forecasts are held in memory with TTL-based
// expiration plus a freshness check near the forecast horizon.
//
// Open-Meteo requires no API key. Historical and forecast endpoints share
// the same variable names, so the same model types serve both.
package openmeteo

import "time"

const (
	// ArchiveBaseURL is the Open-Meteo archive endpoint for historical data
	// (from 1940 to roughly five days ago).
	ArchiveBaseURL = "https://archive-api.open-meteo.com/v1/archive"

	// ForecastBaseURL is the Open-Meteo forecast endpoint, also used for
	// current conditions.
	ForecastBaseURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultForecastDays is the forecast window requested when the caller
	// does not specify one.
	DefaultForecastDays = 7

	// MaxForecastDays is the largest forecast window the free tier serves.
	MaxForecastDays = 16

	// DefaultForecastTTL is how long a cached forecast stays fresh.
	DefaultForecastTTL = 60 * time.Minute

	// horizonMargin forces a forecast refresh once "now" is within this
	// margin of the last cached forecast point, even inside the TTL.
	horizonMargin = 3 * time.Hour
)

// TimeStep selects the granularity of returned series.
type TimeStep string

const (
	// StepHourly returns one data point per hour.
	StepHourly TimeStep = "hourly"
	// StepDaily returns daily aggregates (min/max/sum values).
	StepDaily TimeStep = "daily"
)

// HourlyVariables are the hourly variables requested when the caller does
// not pass WithVariables.
var HourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"apparent_temperature",
	"precipitation",
	"rain",
	"snowfall",
	"snow_depth",
	"weather_code",
	"pressure_msl",
	"surface_pressure",
	"cloud_cover",
	"cloud_cover_low",
	"cloud_cover_mid",
	"cloud_cover_high",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
	"shortwave_radiation",
	"direct_radiation",
	"diffuse_radiation",
	"et0_fao_evapotranspiration",
	"vapour_pressure_deficit",
	"visibility",
	"is_day",
}

// DailyVariables are the daily variables requested when the caller does
// not pass WithVariables.
var DailyVariables = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"temperature_2m_mean",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"apparent_temperature_mean",
	"precipitation_sum",
	"rain_sum",
	"snowfall_sum",
	"precipitation_hours",
	"weather_code",
	"sunrise",
	"sunset",
	"daylight_duration",
	"sunshine_duration",
	"wind_speed_10m_max",
	"wind_gusts_10m_max",
	"wind_direction_10m_dominant",
	"shortwave_radiation_sum",
	"et0_fao_evapotranspiration",
	"uv_index_max",
}

// CurrentVariables are the variables requested by Current when the caller
// does not pass WithVariables.
var CurrentVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"apparent_temperature",
	"precipitation",
	"rain",
	"snowfall",
	"weather_code",
	"pressure_msl",
	"surface_pressure",
	"cloud_cover",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
}

func defaultVariables(step TimeStep) []string {
	if step == StepDaily {
		return DailyVariables
	}
	return HourlyVariables
}
