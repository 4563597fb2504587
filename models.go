package openmeteo

// Meta is the location and generation metadata Open-Meteo returns on every
// response. Latitude/longitude are the coordinates of the nearest model grid
// point, not necessarily the requested ones.
type Meta struct {
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Elevation            float64 `json:"elevation"`
	GenerationTimeMS     float64 `json:"generationtime_ms"`
	UTCOffsetSeconds     int     `json:"utc_offset_seconds"`
	Timezone             string  `json:"timezone"`
	TimezoneAbbreviation string  `json:"timezone_abbreviation"`
}

// Units maps variable names to their unit strings (e.g. "temperature_2m" to
// "°C"). The key set depends on the requested variables, hence a map rather
// than a struct.
type Units map[string]string

// HourlyData holds hourly measurements as parallel arrays aligned to Time.
// Every non-nil slice has the same length as Time; entries may be nil where
// the model has no value. JSON tags are the Open-Meteo variable names.
type HourlyData struct {
	Time                     []string   `json:"time"`
	Temperature2M            []*float64 `json:"temperature_2m,omitempty"`
	RelativeHumidity2M       []*float64 `json:"relative_humidity_2m,omitempty"`
	DewPoint2M               []*float64 `json:"dew_point_2m,omitempty"`
	ApparentTemperature      []*float64 `json:"apparent_temperature,omitempty"`
	Precipitation            []*float64 `json:"precipitation,omitempty"`
	Rain                     []*float64 `json:"rain,omitempty"`
	Snowfall                 []*float64 `json:"snowfall,omitempty"`
	SnowDepth                []*float64 `json:"snow_depth,omitempty"`
	WeatherCode              []*int     `json:"weather_code,omitempty"`
	PressureMSL              []*float64 `json:"pressure_msl,omitempty"`
	SurfacePressure          []*float64 `json:"surface_pressure,omitempty"`
	CloudCover               []*int     `json:"cloud_cover,omitempty"`
	CloudCoverLow            []*int     `json:"cloud_cover_low,omitempty"`
	CloudCoverMid            []*int     `json:"cloud_cover_mid,omitempty"`
	CloudCoverHigh           []*int     `json:"cloud_cover_high,omitempty"`
	WindSpeed10M             []*float64 `json:"wind_speed_10m,omitempty"`
	WindDirection10M         []*int     `json:"wind_direction_10m,omitempty"`
	WindGusts10M             []*float64 `json:"wind_gusts_10m,omitempty"`
	ShortwaveRadiation       []*float64 `json:"shortwave_radiation,omitempty"`
	DirectRadiation          []*float64 `json:"direct_radiation,omitempty"`
	DiffuseRadiation         []*float64 `json:"diffuse_radiation,omitempty"`
	ET0FAOEvapotranspiration []*float64 `json:"et0_fao_evapotranspiration,omitempty"`
	VapourPressureDeficit    []*float64 `json:"vapour_pressure_deficit,omitempty"`
	Visibility               []*float64 `json:"visibility,omitempty"`
	IsDay                    []*int     `json:"is_day,omitempty"`
}

// DailyData holds daily aggregates as parallel arrays aligned to Time.
type DailyData struct {
	Time                      []string   `json:"time"`
	Temperature2MMax          []*float64 `json:"temperature_2m_max,omitempty"`
	Temperature2MMin          []*float64 `json:"temperature_2m_min,omitempty"`
	Temperature2MMean         []*float64 `json:"temperature_2m_mean,omitempty"`
	ApparentTemperatureMax    []*float64 `json:"apparent_temperature_max,omitempty"`
	ApparentTemperatureMin    []*float64 `json:"apparent_temperature_min,omitempty"`
	ApparentTemperatureMean   []*float64 `json:"apparent_temperature_mean,omitempty"`
	PrecipitationSum          []*float64 `json:"precipitation_sum,omitempty"`
	RainSum                   []*float64 `json:"rain_sum,omitempty"`
	SnowfallSum               []*float64 `json:"snowfall_sum,omitempty"`
	PrecipitationHours        []*float64 `json:"precipitation_hours,omitempty"`
	WeatherCode               []*int     `json:"weather_code,omitempty"`
	Sunrise                   []string   `json:"sunrise,omitempty"`
	Sunset                    []string   `json:"sunset,omitempty"`
	DaylightDuration          []*float64 `json:"daylight_duration,omitempty"`
	SunshineDuration          []*float64 `json:"sunshine_duration,omitempty"`
	WindSpeed10MMax           []*float64 `json:"wind_speed_10m_max,omitempty"`
	WindGusts10MMax           []*float64 `json:"wind_gusts_10m_max,omitempty"`
	WindDirection10MDominant  []*int     `json:"wind_direction_10m_dominant,omitempty"`
	ShortwaveRadiationSum     []*float64 `json:"shortwave_radiation_sum,omitempty"`
	ET0FAOEvapotranspiration  []*float64 `json:"et0_fao_evapotranspiration,omitempty"`
	UVIndexMax                []*float64 `json:"uv_index_max,omitempty"`
}

// CurrentData is a single observation at one point in time.
type CurrentData struct {
	Time                string   `json:"time"`
	Interval            int      `json:"interval"`
	Temperature2M       *float64 `json:"temperature_2m,omitempty"`
	RelativeHumidity2M  *float64 `json:"relative_humidity_2m,omitempty"`
	DewPoint2M          *float64 `json:"dew_point_2m,omitempty"`
	ApparentTemperature *float64 `json:"apparent_temperature,omitempty"`
	Precipitation       *float64 `json:"precipitation,omitempty"`
	Rain                *float64 `json:"rain,omitempty"`
	Snowfall            *float64 `json:"snowfall,omitempty"`
	WeatherCode         *int     `json:"weather_code,omitempty"`
	PressureMSL         *float64 `json:"pressure_msl,omitempty"`
	SurfacePressure     *float64 `json:"surface_pressure,omitempty"`
	CloudCover          *int     `json:"cloud_cover,omitempty"`
	WindSpeed10M        *float64 `json:"wind_speed_10m,omitempty"`
	WindDirection10M    *int     `json:"wind_direction_10m,omitempty"`
	WindGusts10M        *float64 `json:"wind_gusts_10m,omitempty"`
}

// Response is a historical or forecast reply. Exactly one of Hourly or Daily
// is set, matching the requested step.
type Response struct {
	Meta
	HourlyUnits Units       `json:"hourly_units,omitempty"`
	Hourly      *HourlyData `json:"hourly,omitempty"`
	DailyUnits  Units       `json:"daily_units,omitempty"`
	Daily       *DailyData  `json:"daily,omitempty"`
}

// CurrentResponse is the reply for current conditions.
type CurrentResponse struct {
	Meta
	CurrentUnits Units        `json:"current_units,omitempty"`
	Current      *CurrentData `json:"current"`
}

// errorResponse is the shape Open-Meteo uses to report request errors in the
// body, with or without a non-2xx status.
type errorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
