package openmeteo

import (
	"reflect"
	"time"
)

// appendSeries appends every slice field of src onto the matching field of
// dst. Both must be pointers to the same struct type. Months are appended
// whole and in chronological order, so Time and the variable arrays stay
// aligned as long as each month requested the same variable set.
func appendSeries(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for i := 0; i < dv.NumField(); i++ {
		df := dv.Field(i)
		sf := sv.Field(i)
		if df.Kind() != reflect.Slice || sf.IsNil() {
			continue
		}
		df.Set(reflect.AppendSlice(df, sf))
	}
}

// trimSeries reslices every slice field of block to [from, to), clamping to
// each field's own length so a short variable array cannot panic.
func trimSeries(block interface{}, from, to int) {
	v := reflect.ValueOf(block).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Slice || f.IsNil() {
			continue
		}
		hi := to
		if f.Len() < hi {
			hi = f.Len()
		}
		lo := from
		if lo > hi {
			lo = hi
		}
		f.Set(f.Slice(lo, hi))
	}
}

// timeWindow returns the half-open index range [from, to) of entries within
// [start, end]. ISO 8601 timestamps compare correctly as plain strings, so
// no parsing is needed; times is assumed sorted ascending.
func timeWindow(times []string, start, end string) (from, to int) {
	from = 0
	for from < len(times) && times[from] < start {
		from++
	}
	to = from
	for to < len(times) && times[to] <= end {
		to++
	}
	return from, to
}

// clipToRange trims the response's series block to the requested day window.
// Hourly timestamps carry a time-of-day suffix, so the window is widened to
// cover the whole first and last day.
func clipToRange(r *Response, start, end time.Time, step TimeStep) {
	s := start.Format("2006-01-02")
	e := end.Format("2006-01-02")
	if step == StepDaily {
		if r.Daily == nil {
			return
		}
		from, to := timeWindow(r.Daily.Time, s, e)
		trimSeries(r.Daily, from, to)
		return
	}
	if r.Hourly == nil {
		return
	}
	from, to := timeWindow(r.Hourly.Time, s+"T00:00", e+"T23:59")
	trimSeries(r.Hourly, from, to)
}

// lastSeriesTime extracts the timestamp of the final forecast point, used to
// judge freshness near the forecast horizon. Returns fallback when the
// response carries no parseable series.
func lastSeriesTime(r *Response, fallback time.Time) time.Time {
	var last string
	var layout string
	if r.Hourly != nil && len(r.Hourly.Time) > 0 {
		last = r.Hourly.Time[len(r.Hourly.Time)-1]
		layout = "2006-01-02T15:04"
	} else if r.Daily != nil && len(r.Daily.Time) > 0 {
		last = r.Daily.Time[len(r.Daily.Time)-1]
		layout = "2006-01-02"
	} else {
		return fallback
	}
	t, err := time.Parse(layout, last)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
