package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time with no date attached, e.g. "8:00" or "20:30".
// Medications carry an ordered set of these; the scheduler turns them into
// concrete instants for the current day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the value as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns the value as minutes since midnight, used for ordering.
func (t TimeOfDay) MinuteOfDay() int { return t.Hour*60 + t.Minute }

// ParseTimeOfDay parses "HH:MM" (24h clock). It rejects anything outside
// 00:00–23:59 so user input cannot smuggle roll-over times into the store.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// EncodeTimesOfDay serialises an ordered set of times as a JSON array of
// "HH:MM" strings, the on-disk format of the medications.specific_times
// column. The slice is sorted and de-duplicated so the stored form is
// canonical.
func EncodeTimesOfDay(times []TimeOfDay) (string, error) {
	if len(times) == 0 {
		return "", nil
	}

	sorted := make([]TimeOfDay, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinuteOfDay() < sorted[j].MinuteOfDay()
	})

	out := make([]string, 0, len(sorted))
	for i, t := range sorted {
		if i > 0 && t == sorted[i-1] {
			continue
		}
		out = append(out, t.String())
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode specific times: %w", err)
	}
	return string(b), nil
}

// DecodeTimesOfDay parses the specific_times column. Malformed data returns
// (nil, false) instead of an error: the caller falls back to the frequency's
// default times, so one corrupt row degrades to defaults rather than breaking
// the schedule.
func DecodeTimesOfDay(raw string) ([]TimeOfDay, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}

	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err != nil {
		return nil, false
	}

	times := make([]TimeOfDay, 0, len(strs))
	for _, s := range strs {
		t, err := ParseTimeOfDay(s)
		if err != nil {
			return nil, false
		}
		times = append(times, t)
	}
	return times, true
}
