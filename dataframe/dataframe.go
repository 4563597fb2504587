// Package dataframe converts Open-Meteo responses into gota DataFrames for
// tabular analysis. It lives in its own package so the gota dependency stays
// opt-in: library consumers that never import it never build it.
package dataframe

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	gdf "github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/openmeteo-go/openmeteo"
)

// ErrNoSeries is returned for a response carrying no series data.
var ErrNoSeries = errors.New("dataframe: response has no series data")

// FromResponse converts a historical or forecast response into a DataFrame
// with one row per time index entry: the time column first, then one column
// per present variable in model declaration order, named exactly as the API
// names them.
func FromResponse(resp *openmeteo.Response) (gdf.DataFrame, error) {
	if resp == nil {
		return gdf.DataFrame{}, ErrNoSeries
	}
	switch {
	case resp.Hourly != nil:
		return blockFrame(resp.Hourly)
	case resp.Daily != nil:
		return blockFrame(resp.Daily)
	}
	return gdf.DataFrame{}, ErrNoSeries
}

// FromCurrent converts current conditions into a single-row DataFrame.
func FromCurrent(resp *openmeteo.CurrentResponse) (gdf.DataFrame, error) {
	if resp == nil || resp.Current == nil {
		return gdf.DataFrame{}, ErrNoSeries
	}
	v := reflect.ValueOf(resp.Current).Elem()
	t := v.Type()
	var cols []series.Series
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		name := jsonName(t.Field(i))
		switch val := f.Interface().(type) {
		case string:
			cols = append(cols, series.New([]string{val}, series.String, name))
		case int:
			cols = append(cols, series.New([]int{val}, series.Int, name))
		case *float64:
			if val != nil {
				cols = append(cols, series.New([]float64{*val}, series.Float, name))
			}
		case *int:
			if val != nil {
				cols = append(cols, series.New([]int{*val}, series.Int, name))
			}
		}
	}
	return newFrame(cols)
}

// blockFrame builds the frame from an HourlyData or DailyData block. Field
// declaration order in the model matches the API's variable declaration
// order, so iterating struct fields yields the expected column order.
func blockFrame(block interface{}) (gdf.DataFrame, error) {
	v := reflect.ValueOf(block).Elem()
	t := v.Type()
	var cols []series.Series
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Slice || f.IsNil() {
			continue
		}
		name := jsonName(t.Field(i))
		switch vals := f.Interface().(type) {
		case []string:
			cols = append(cols, series.New(vals, series.String, name))
		case []*float64:
			cols = append(cols, floatColumn(name, vals))
		case []*int:
			cols = append(cols, intColumn(name, vals))
		}
	}
	return newFrame(cols)
}

func newFrame(cols []series.Series) (gdf.DataFrame, error) {
	if len(cols) == 0 {
		return gdf.DataFrame{}, ErrNoSeries
	}
	df := gdf.New(cols...)
	if df.Err != nil {
		return gdf.DataFrame{}, fmt.Errorf("dataframe: %w", df.Err)
	}
	return df, nil
}

// floatColumn maps nil entries to NaN, gota's missing-value marker.
func floatColumn(name string, vals []*float64) series.Series {
	fs := make([]float64, len(vals))
	for i, p := range vals {
		if p == nil {
			fs[i] = math.NaN()
		} else {
			fs[i] = *p
		}
	}
	return series.New(fs, series.Float, name)
}

// intColumn also yields a float column: gota's Int series has no NaN, and
// integer variables (cloud cover, weather codes) can carry nulls too.
func intColumn(name string, vals []*int) series.Series {
	fs := make([]float64, len(vals))
	for i, p := range vals {
		if p == nil {
			fs[i] = math.NaN()
		} else {
			fs[i] = float64(*p)
		}
	}
	return series.New(fs, series.Float, name)
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}
