package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Reading is one recorded tire measurement event.
// The legacy store keeps these under TireData/{date}/{tireId}; within one
// partition date the tire id is the record key, so (RecordedDate, TireID)
// identifies a reading. Readings are immutable once written: a re-check
// writes a new row under a new partition date instead of touching history.
type Reading struct {
	TireID      string  `json:"tireNo"`
	VehicleID   string  `json:"vehicleNo"`
	VehicleType string  `json:"vehicleType"`
	Position    string  `json:"tirePosition"`
	Pressure    float64 `json:"tyrePressure"`
	TreadDepth  float64 `json:"threadDepth"`
	KmReading   float64 `json:"kmReading"`
	Brand       string  `json:"tireBrand"`
	Condition   string  `json:"tireCondition"` // descriptive tag (Good / Worn Out), never computed

	RecordedDate string `json:"date"` // DD-MM-YYYY, the partition key
	RecordedTime string `json:"time"` // HH:MM:SS, optional
}

const (
	// DateLayout is the canonical partition date format.
	DateLayout = "02-01-2006"
	// TimeLayout is the canonical reading time format.
	TimeLayout = "15:04:05"
)

// RecordedAt parses the (RecordedDate, RecordedTime) pair into a point in
// time. An unparseable date yields the zero time, which sorts below every
// valid reading. The comparison is done on parsed values on purpose: the
// legacy screens compared raw date strings, which breaks for single-digit
// day/month formatting.
func (r Reading) RecordedAt() time.Time {
	d, err := time.Parse(DateLayout, strings.TrimSpace(r.RecordedDate))
	if err != nil {
		return time.Time{}
	}
	if rt := strings.TrimSpace(r.RecordedTime); rt != "" {
		if t, err := time.Parse(TimeLayout, rt); err == nil {
			return d.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
	}
	return d
}

// NormalizeRecord converts one raw store record into the canonical Reading
// shape. The legacy store carries two generations of field spellings
// (tyrePressure/threadDepth/TirePosition/tirestatus/tirebrand, and split
// Date+Time vs combined dateTime); all of that variance is absorbed here so
// nothing downstream has to branch on it. Numeric fields arrive as strings
// or numbers depending on the form version; anything unparseable becomes
// NaN, which the evaluator classifies as BAD.
func NormalizeRecord(raw map[string]any, partitionDate string) Reading {
	r := Reading{
		TireID:      firstString(raw, "tireNo", "tireId"),
		VehicleID:   firstString(raw, "vehicleNo", "vehicleId"),
		VehicleType: firstString(raw, "vehicleType"),
		Position:    firstString(raw, "TirePosition", "tirePosition", "position"),
		Brand:       firstString(raw, "tirebrand", "tireBrand", "brand"),
		Condition:   firstString(raw, "tirestatus", "tireStatus", "status"),
		Pressure:    toFloat(firstValue(raw, "tyrePressure", "pressure")),
		TreadDepth:  toFloat(firstValue(raw, "threadDepth", "treadDepth")),
		KmReading:   toFloat(firstValue(raw, "kmReading")),
	}

	r.RecordedDate = normalizeDate(firstString(raw, "Date", "date"))
	r.RecordedTime = normalizeTime(firstString(raw, "Time", "time"))

	// Older records carry a single locale-formatted dateTime instead of the
	// split pair.
	if r.RecordedDate == "" || r.RecordedTime == "" {
		if dt := firstString(raw, "dateTime"); dt != "" {
			d, t := splitLegacyDateTime(dt)
			if r.RecordedDate == "" {
				r.RecordedDate = d
			}
			if r.RecordedTime == "" {
				r.RecordedTime = t
			}
		}
	}

	// The partition key is authoritative for the calendar date.
	if d := normalizeDate(partitionDate); d != "" {
		r.RecordedDate = d
	}

	return r
}

// legacy date formats seen in the store, in priority order
var legacyDateLayouts = []string{
	DateLayout,   // 02-01-2006 (entry form)
	"01-02-2006", // MM-DD-YYYY (check-list writes)
	"1/2/2006",   // en-US short date from dateTime strings
	"01/02/2006",
	"2006-01-02",
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range legacyDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(DateLayout)
		}
	}
	return ""
}

var legacyTimeLayouts = []string{
	TimeLayout,
	"3:04:05 PM", // en-US locale time from dateTime strings
	"15:04",
}

func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout)
		}
	}
	return ""
}

// splitLegacyDateTime handles the combined "1/2/2025, 3:04:05 PM" strings
// written by the first form version.
func splitLegacyDateTime(s string) (date, tm string) {
	parts := strings.SplitN(s, ",", 2)
	date = normalizeDate(parts[0])
	if len(parts) == 2 {
		tm = normalizeTime(parts[1])
	}
	return date, tm
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
