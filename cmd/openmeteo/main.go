// Command openmeteo fetches weather data for a coordinate pair and prints it
// as plain text. It exercises the library's three operations: forecast,
// historical, and current conditions.
//
//	openmeteo -mode forecast -lat 55.75 -lon 37.62 -days 7 -step daily
//	openmeteo -mode historical -lat 55.75 -lon 37.62 -start 2024-01-01 -end 2024-01-31
//	openmeteo -mode current -lat 55.75 -lon 37.62
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/openmeteo-go/openmeteo"
	"github.com/openmeteo-go/openmeteo/internal/config"
	"github.com/openmeteo-go/openmeteo/internal/observability"
)

func main() {
	var (
		mode       = flag.String("mode", "forecast", "forecast, historical or current")
		lat        = flag.Float64("lat", 0, "latitude in decimal degrees")
		lon        = flag.Float64("lon", 0, "longitude in decimal degrees")
		days       = flag.Int("days", openmeteo.DefaultForecastDays, "forecast days (1-16)")
		step       = flag.String("step", "daily", "time step: hourly or daily")
		start      = flag.String("start", "", "historical start date (YYYY-MM-DD)")
		end        = flag.String("end", "", "historical end date (YYYY-MM-DD)")
		configPath = flag.String("config", "", "path to YAML config file")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	opts := []openmeteo.Option{
		openmeteo.WithLogger(logger),
		openmeteo.WithTimeout(cfg.HTTPTimeout),
		openmeteo.WithForecastTTL(cfg.ForecastTTL),
	}
	if cfg.CacheDir != "" {
		opts = append(opts, openmeteo.WithCacheDir(cfg.CacheDir))
	}
	if cfg.CacheBackend == "memcached" {
		opts = append(opts, openmeteo.WithMemcached(cfg.MemcachedAddrs))
		logger.Info("forecast cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	}

	client, err := openmeteo.New(opts...)
	if err != nil {
		logger.Fatal("client", zap.Error(err))
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("closing cache backend", zap.Error(err))
		}
	}()

	ctx := context.Background()
	tz := openmeteo.WithTimezone(cfg.Timezone)

	switch *mode {
	case "forecast":
		resp, err := client.Forecast(ctx, *lat, *lon, *days, openmeteo.TimeStep(*step), tz)
		if err != nil {
			logger.Fatal("forecast", zap.Error(err))
		}
		printSeries(resp)
	case "historical":
		startDate, err := time.Parse("2006-01-02", *start)
		if err != nil {
			logger.Fatal("bad -start date", zap.Error(err))
		}
		endDate, err := time.Parse("2006-01-02", *end)
		if err != nil {
			logger.Fatal("bad -end date", zap.Error(err))
		}
		resp, err := client.Historical(ctx, *lat, *lon, startDate, endDate, openmeteo.TimeStep(*step), tz)
		if err != nil {
			logger.Fatal("historical", zap.Error(err))
		}
		printSeries(resp)
	case "current":
		resp, err := client.Current(ctx, *lat, *lon, tz)
		if err != nil {
			logger.Fatal("current", zap.Error(err))
		}
		printCurrent(resp)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

func printSeries(resp *openmeteo.Response) {
	switch {
	case resp.Hourly != nil:
		for i, t := range resp.Hourly.Time {
			fmt.Printf("%s  temperature=%s\n", t, fmtVal(at(resp.Hourly.Temperature2M, i)))
		}
	case resp.Daily != nil:
		for i, t := range resp.Daily.Time {
			fmt.Printf("%s  min=%s max=%s\n", t,
				fmtVal(at(resp.Daily.Temperature2MMin, i)),
				fmtVal(at(resp.Daily.Temperature2MMax, i)))
		}
	}
}

func printCurrent(resp *openmeteo.CurrentResponse) {
	c := resp.Current
	if c == nil {
		return
	}
	fmt.Printf("time: %s\n", c.Time)
	fmt.Printf("temperature: %s °C\n", fmtVal(c.Temperature2M))
	fmt.Printf("humidity: %s %%\n", fmtVal(c.RelativeHumidity2M))
	fmt.Printf("wind: %s km/h\n", fmtVal(c.WindSpeed10M))
	fmt.Printf("pressure: %s hPa\n", fmtVal(c.PressureMSL))
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func fmtVal(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
