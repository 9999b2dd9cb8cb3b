package domain

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// AlarmTriggered is the firmware code the bin sensors emit when a discrete
// alarm fires. Any other value means "normal"; this is a device convention,
// not a boolean.
const AlarmTriggered = 7

// Metric is a numeric sensor field that may be absent. The telemetry feed
// carries absent values as the string "N/A", so the JSON codec has to accept
// either a number or that sentinel without failing the whole record.
type Metric struct {
	sql.NullFloat64
}

func F(v float64) Metric {
	return Metric{sql.NullFloat64{Float64: v, Valid: true}}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(m.Float64)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		m.Valid = false
		return nil
	}
	switch x := v.(type) {
	case float64:
		m.Float64, m.Valid = x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			m.Valid = false
			return nil
		}
		m.Float64, m.Valid = f, true
	default:
		m.Valid = false
	}
	return nil
}

// AlarmCode is a discrete firmware alarm field. Missing or junk values decode
// as 0 (normal), matching the feed's defaulting rules.
type AlarmCode int

func (a AlarmCode) Triggered() bool { return a == AlarmTriggered }

func (a *AlarmCode) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*a = 0
		return nil
	}
	switch x := v.(type) {
	case float64:
		*a = AlarmCode(int(x))
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			*a = 0
			return nil
		}
		*a = AlarmCode(n)
	default:
		*a = 0
	}
	return nil
}

func (a *AlarmCode) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = AlarmCode(x)
	case float64:
		*a = AlarmCode(int(x))
	default:
		return fmt.Errorf("alarm code: unsupported scan type %T", src)
	}
	return nil
}

func (a AlarmCode) Value() (driver.Value, error) { return int64(a), nil }

// Timestamp is the reading's production time. The feed carries it as an
// ISO-ish string or "N/A"; an unparsable value decodes as the zero time and
// is treated as "no usable timestamp" downstream, never as an error.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func Ts(t time.Time) Timestamp { return Timestamp{t} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t *Timestamp) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = x
	default:
		return fmt.Errorf("timestamp: unsupported scan type %T", src)
	}
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

// Reading is one telemetry sample from a bin sensor. Immutable once received;
// the pipeline only derives new structures from it.
type Reading struct {
	DeviceID     string    `db:"token_id" json:"deviceId"`
	Timestamp    Timestamp `db:"timestamp" json:"timestamp"`
	Height       Metric    `db:"height" json:"height"`
	Temperature  Metric    `db:"temperature" json:"temperature"`
	Volt         Metric    `db:"volt" json:"volt"`
	Angle        Metric    `db:"angle" json:"angle"`
	RSRP         Metric    `db:"rsrp" json:"rsrp"`
	FrameCounter Metric    `db:"frame_counter" json:"frameCounter"`
	Longitude    Metric    `db:"longitude" json:"longitude"`
	Latitude     Metric    `db:"latitude" json:"latitude"`
	FullAlarm    AlarmCode `db:"full_alarm" json:"fullAlarm"`
	FireAlarm    AlarmCode `db:"fire_alarm" json:"fireAlarm"`
	TiltAlarm    AlarmCode `db:"tilt_alarm" json:"tiltAlarm"`
	BatteryAlarm AlarmCode `db:"battery_alarm" json:"batteryAlarm"`
}

// DeviceState is the most recent Reading observed for a device within one
// pipeline run.
type DeviceState = Reading

// Position is a valid GPS fix. Readings without one are excluded from spatial
// output but still classified.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Position returns the reading's GPS fix, or nil when either coordinate is
// absent or invalid.
func (r Reading) Position() *Position {
	if !r.Latitude.Valid || !r.Longitude.Valid {
		return nil
	}
	return &Position{Latitude: r.Latitude.Float64, Longitude: r.Longitude.Float64}
}

// AlertCondition is one named alert state for a device.
type AlertCondition string

const (
	BinFull         AlertCondition = "BIN_FULL"
	FireDetected    AlertCondition = "FIRE_DETECTED"
	BinTilted       AlertCondition = "BIN_TILTED"
	BatteryLow      AlertCondition = "BATTERY_LOW"
	HighTemperature AlertCondition = "HIGH_TEMPERATURE"

	// NoAlerts is the sentinel for an empty classification result.
	NoAlerts AlertCondition = "NO_ALERTS"
)

// AlertSet is the set of active conditions for a DeviceState at classification
// time. Never empty: a fully normal device classifies as {NoAlerts}.
type AlertSet []AlertCondition

func (s AlertSet) Has(c AlertCondition) bool {
	for _, got := range s {
		if got == c {
			return true
		}
	}
	return false
}

// Active reports whether any real condition is present.
func (s AlertSet) Active() bool {
	return len(s) > 0 && !(len(s) == 1 && s[0] == NoAlerts)
}

// BinGroup is an operator-defined grouping of devices (a "site"). Persisted,
// not UI memory, so it survives reloads.
type BinGroup struct {
	ID        int64        `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	DeviceIDs DeviceIDList `db:"device_ids" json:"deviceIds"`
}

// DeviceIDList is stored as a JSON array in a single column.
type DeviceIDList []string

func (l *DeviceIDList) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(x, l)
	case string:
		return json.Unmarshal([]byte(x), l)
	default:
		return fmt.Errorf("device id list: unsupported scan type %T", src)
	}
}

func (l DeviceIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
