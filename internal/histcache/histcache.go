// Package histcache persists fetched monthly archive chunks as one JSON file
// per (coordinate key, step, year-month). Past months never change upstream,
// so files are written once and reused forever; only months inside the
// recent-history window are re-fetched to pick up upstream corrections.
package histcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RecentMonths is how many months before the current one are re-fetched even
// when cached. Open-Meteo keeps correcting recently published archive data.
const RecentMonths = 5

const monthLayout = "2006-01"

// Cache stores raw monthly payloads on disk. A payload is saved byte-for-byte
// as fetched and returned byte-identical by LoadMonth.
type Cache struct {
	dir string
}

// New creates the cache directory if needed and returns a Cache rooted there.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string { return c.dir }

// CoordKey returns a filesystem-safe partition key for coordinates rounded
// to four decimals, e.g. (55.75, 37.62) -> "55p7500_37p6200" and
// (-33.865, 151.21) -> "m33p8650_151p2100".
func CoordKey(latitude, longitude float64) string {
	k := fmt.Sprintf("%.4f_%.4f", latitude, longitude)
	k = strings.ReplaceAll(k, "-", "m")
	return strings.ReplaceAll(k, ".", "p")
}

func (c *Cache) file(latitude, longitude float64, step, month string) string {
	name := fmt.Sprintf("%s_%s_%s.json", CoordKey(latitude, longitude), step, month)
	return filepath.Join(c.dir, name)
}

// LoadMonth returns the cached payload for one month, byte-identical to what
// SaveMonth stored.
func (c *Cache) LoadMonth(latitude, longitude float64, step, month string) ([]byte, error) {
	data, err := os.ReadFile(c.file(latitude, longitude, step, month))
	if err != nil {
		return nil, fmt.Errorf("load cached month %s: %w", month, err)
	}
	return data, nil
}

// SaveMonth writes the payload via a temp file and rename so a concurrent
// reader never sees a half-written file; concurrent writers race with
// last-write-wins, which is safe because published months are stable.
func (c *Cache) SaveMonth(latitude, longitude float64, step, month string, payload []byte) error {
	path := c.file(latitude, longitude, step, month)
	tmp, err := os.CreateTemp(c.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("save month %s: %w", month, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save month %s: %w", month, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save month %s: %w", month, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save month %s: %w", month, err)
	}
	return nil
}

// CachedMonths returns the set of month keys present for a location and step.
func (c *Cache) CachedMonths(latitude, longitude float64, step string) (map[string]bool, error) {
	pattern := filepath.Join(c.dir, CoordKey(latitude, longitude)+"_"+step+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scan cache dir: %w", err)
	}
	months := make(map[string]bool, len(matches))
	for _, m := range matches {
		stem := strings.TrimSuffix(filepath.Base(m), ".json")
		parts := strings.Split(stem, "_")
		if len(parts) < 3 {
			continue
		}
		months[parts[len(parts)-1]] = true
	}
	return months, nil
}

// MissingMonths reports which of the given months must be fetched: months
// with no cache file, plus cached months still inside the recent-history
// window. A directory scan failure degrades to "fetch everything".
func (c *Cache) MissingMonths(latitude, longitude float64, step string, months []string, today time.Time) []string {
	cached, err := c.CachedMonths(latitude, longitude, step)
	if err != nil {
		cached = nil
	}
	var missing []string
	for _, m := range months {
		if !cached[m] || MonthRecent(m, today) {
			missing = append(missing, m)
		}
	}
	return missing
}

// MonthRecent reports whether the month falls inside the refetch window
// ending at the current month.
func MonthRecent(month string, today time.Time) bool {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return false
	}
	cutoff := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -RecentMonths, 0)
	return !t.Before(cutoff)
}

// MonthsInRange returns the calendar month keys covering [start, end] in
// ascending order.
func MonthsInRange(start, end time.Time) []string {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	var months []string
	for !cur.After(last) {
		months = append(months, cur.Format(monthLayout))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// MonthBounds returns the first and last day of a month key.
func MonthBounds(month string) (time.Time, time.Time, error) {
	first, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad month key %q: %w", month, err)
	}
	return first, first.AddDate(0, 1, -1), nil
}

// Clear deletes every cached file and recreates the cache directory.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("recreate cache dir: %w", err)
	}
	return nil
}
