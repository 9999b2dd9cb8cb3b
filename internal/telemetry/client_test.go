package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReadings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bins", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"deviceId":"bin-001","height":40,"temperature":25,"volt":12.5,
			 "longitude":80.21,"latitude":13.05,"fullAlarm":0,"fireAlarm":0,
			 "tiltAlarm":0,"batteryAlarm":0,"timestamp":"2026-03-01T10:00:00Z"},
			{"deviceId":"bin-002","height":"N/A","temperature":"N/A","volt":"N/A",
			 "longitude":"N/A","latitude":"N/A","fullAlarm":7,"fireAlarm":0,
			 "tiltAlarm":0,"batteryAlarm":0,"timestamp":"N/A"}
		]`))
	}))
	defer srv.Close()

	readings, err := NewClient(srv.URL).FetchReadings(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)

	assert.Equal(t, "bin-001", readings[0].DeviceID)
	assert.Equal(t, 40.0, readings[0].Height.Float64)
	assert.NotNil(t, readings[0].Position())

	// The second record is mostly sentinels but still ingests.
	assert.Equal(t, "bin-002", readings[1].DeviceID)
	assert.False(t, readings[1].Height.Valid)
	assert.True(t, readings[1].FullAlarm.Triggered())
	assert.True(t, readings[1].Timestamp.IsZero())
	assert.Nil(t, readings[1].Position())
}

func TestFetchReadings_TransportFailureIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	readings, err := NewClient(srv.URL).FetchReadings(context.Background())
	// "No current data", never an empty fleet.
	assert.Error(t, err)
	assert.Nil(t, readings)
}

func TestFetchReadings_Unreachable(t *testing.T) {
	readings, err := NewClient("http://127.0.0.1:1").FetchReadings(context.Background())
	assert.Error(t, err)
	assert.Nil(t, readings)
}
