package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
	"github.com/wastewatch/bin-fleet-monitor/internal/service"
)

func TestBuildFleetReport(t *testing.T) {
	states := []domain.DeviceState{
		{
			DeviceID:    "bin-001",
			Height:      domain.F(96),
			Temperature: domain.F(30),
			Volt:        domain.F(12.5),
			Latitude:    domain.F(13.05),
			Longitude:   domain.F(80.21),
		},
		{
			DeviceID: "bin-002",
			// everything else absent
		},
	}
	policy := service.NumericThresholdPolicy(service.Thresholds{Full: 95, LowBattery: 15, HighTemp: 45})

	data, err := BuildFleetReport(states, policy)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "bin-001", id)

	conds, err := f.GetCellValue(sheet, "H2")
	require.NoError(t, err)
	assert.Contains(t, conds, string(domain.BinFull))
	assert.Contains(t, conds, string(domain.BatteryLow)) // volt 12.5 < 15

	height, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "N/A", height)

	conds, err = f.GetCellValue(sheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, string(domain.NoAlerts), conds)
}
