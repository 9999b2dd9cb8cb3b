package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReading_UnmarshalMixedPayload(t *testing.T) {
	// The feed mixes numbers with "N/A" sentinels in the same fields.
	payload := `{
		"deviceId": "bin-007",
		"height": 91.5,
		"temperature": "N/A",
		"volt": 12.8,
		"angle": "N/A",
		"rsrp": -98,
		"frameCounter": 1204,
		"longitude": "N/A",
		"latitude": "N/A",
		"fullAlarm": 7,
		"fireAlarm": 0,
		"tiltAlarm": 0,
		"batteryAlarm": 0,
		"timestamp": "2026-03-01T10:15:00Z"
	}`

	var rd Reading
	require.NoError(t, json.Unmarshal([]byte(payload), &rd))

	assert.Equal(t, "bin-007", rd.DeviceID)
	assert.True(t, rd.Height.Valid)
	assert.Equal(t, 91.5, rd.Height.Float64)
	assert.False(t, rd.Temperature.Valid)
	assert.False(t, rd.Angle.Valid)
	assert.True(t, rd.FullAlarm.Triggered())
	assert.False(t, rd.FireAlarm.Triggered())
	assert.True(t, rd.Timestamp.Equal(time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)))
	assert.Nil(t, rd.Position())
}

func TestReading_UnmarshalJunkNeverFails(t *testing.T) {
	payload := `{
		"deviceId": "bin-001",
		"height": {"nested": true},
		"volt": "not-a-number",
		"fullAlarm": "N/A",
		"timestamp": "N/A"
	}`

	var rd Reading
	require.NoError(t, json.Unmarshal([]byte(payload), &rd))

	assert.False(t, rd.Height.Valid)
	assert.False(t, rd.Volt.Valid)
	assert.Equal(t, AlarmCode(0), rd.FullAlarm)
	assert.True(t, rd.Timestamp.IsZero())
}

func TestReading_MarshalEmitsSentinels(t *testing.T) {
	rd := Reading{
		DeviceID: "bin-002",
		Height:   F(40),
	}

	b, err := json.Marshal(rd)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "bin-002", got["deviceId"])
	assert.Equal(t, 40.0, got["height"])
	assert.Equal(t, "N/A", got["temperature"])
	assert.Equal(t, "N/A", got["timestamp"])
	assert.Equal(t, 0.0, got["fullAlarm"])
}

func TestTimestamp_ParsesCommonLayouts(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{`"2026-03-01T10:15:00Z"`, true},
		{`"2026-03-01T10:15:00.123Z"`, true},
		{`"2026-03-01 10:15:00"`, true},
		{`"N/A"`, false},
		{`"yesterday"`, false},
		{`42`, false},
	}

	for _, tt := range tests {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tt.in), &ts), tt.in)
		assert.Equal(t, tt.valid, !ts.IsZero(), tt.in)
	}
}

func TestAlertSet(t *testing.T) {
	none := AlertSet{NoAlerts}
	assert.False(t, none.Active())
	assert.True(t, none.Has(NoAlerts))

	set := AlertSet{BinFull, FireDetected}
	assert.True(t, set.Active())
	assert.True(t, set.Has(FireDetected))
	assert.False(t, set.Has(BatteryLow))
}

func TestPosition(t *testing.T) {
	rd := Reading{Latitude: F(13.05), Longitude: F(80.21)}
	pos := rd.Position()
	require.NotNil(t, pos)
	assert.Equal(t, 13.05, pos.Latitude)

	rd.Longitude = Metric{}
	assert.Nil(t, rd.Position())
}

func TestDeviceIDList_RoundTrip(t *testing.T) {
	l := DeviceIDList{"bin-001", "bin-002"}
	v, err := l.Value()
	require.NoError(t, err)

	var got DeviceIDList
	require.NoError(t, got.Scan(v))
	assert.Equal(t, l, got)

	var empty DeviceIDList
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)
}
