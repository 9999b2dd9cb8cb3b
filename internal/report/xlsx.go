// Package report renders fleet snapshots as spreadsheet downloads.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
	"github.com/wastewatch/bin-fleet-monitor/internal/service"
)

const sheet = "Fleet"

// BuildFleetReport produces an xlsx workbook with one row per device state,
// classified under the given policy.
func BuildFleetReport(states []domain.DeviceState, policy service.Policy) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []any{
		"Device ID", "Bin Level (cm)", "Temperature (°C)", "Battery (V)",
		"Latitude", "Longitude", "Alarm Codes", "Conditions", "Last Updated",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, st := range states {
		set := policy.Classify(st)
		row := []any{
			st.DeviceID,
			metricCell(st.Height),
			metricCell(st.Temperature),
			metricCell(st.Volt),
			metricCell(st.Latitude),
			metricCell(st.Longitude),
			fmt.Sprintf("full=%d fire=%d tilt=%d battery=%d",
				st.FullAlarm, st.FireAlarm, st.TiltAlarm, st.BatteryAlarm),
			conditionsCell(set),
			timestampCell(st.Timestamp),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func metricCell(m domain.Metric) any {
	if !m.Valid {
		return "N/A"
	}
	return m.Float64
}

func timestampCell(t domain.Timestamp) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}

func conditionsCell(set domain.AlertSet) string {
	parts := make([]string, len(set))
	for i, c := range set {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
