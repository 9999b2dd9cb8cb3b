package service

import "github.com/wastewatch/bin-fleet-monitor/internal/domain"

// Rule is one independently evaluated alert check.
type Rule struct {
	Condition domain.AlertCondition
	Match     func(domain.DeviceState) bool
}

// Policy is a named set of alert rules. Two policies coexist on purpose:
// the alarm-code policy keys off discrete firmware codes and drives
// notification dispatch; the numeric policy keys off continuous sensor
// values and drives the summary/reporting surfaces. They disagree on which
// devices alert and must not be merged.
type Policy struct {
	Name  string
	Rules []Rule
}

// Classify evaluates every rule independently and unions the results; no
// rule suppresses another and a missing sensor field simply fails to match.
// A state matching nothing classifies as {NoAlerts}.
func (p Policy) Classify(st domain.DeviceState) domain.AlertSet {
	var set domain.AlertSet
	for _, rule := range p.Rules {
		if rule.Match(st) {
			set = append(set, rule.Condition)
		}
	}
	if len(set) == 0 {
		return domain.AlertSet{domain.NoAlerts}
	}
	return set
}

// AlarmCodePolicy classifies on the firmware alarm codes (triggered == 7).
func AlarmCodePolicy() Policy {
	return Policy{
		Name: "alarm-code",
		Rules: []Rule{
			{domain.BinFull, func(st domain.DeviceState) bool { return st.FullAlarm.Triggered() }},
			{domain.FireDetected, func(st domain.DeviceState) bool { return st.FireAlarm.Triggered() }},
			{domain.BinTilted, func(st domain.DeviceState) bool { return st.TiltAlarm.Triggered() }},
			{domain.BatteryLow, func(st domain.DeviceState) bool { return st.BatteryAlarm.Triggered() }},
		},
	}
}

// Thresholds configures the numeric policy.
type Thresholds struct {
	Full       float64 // bin level at or above => full
	LowBattery float64 // voltage below => battery low
	HighTemp   float64 // temperature at or above => high temperature
}

// NumericThresholdPolicy classifies on continuous sensor values against the
// configured limits. Absent fields never match.
func NumericThresholdPolicy(t Thresholds) Policy {
	return Policy{
		Name: "numeric-threshold",
		Rules: []Rule{
			{domain.BinFull, func(st domain.DeviceState) bool {
				return st.Height.Valid && st.Height.Float64 >= t.Full
			}},
			{domain.BatteryLow, func(st domain.DeviceState) bool {
				return st.Volt.Valid && st.Volt.Float64 < t.LowBattery
			}},
			{domain.HighTemperature, func(st domain.DeviceState) bool {
				return st.Temperature.Valid && st.Temperature.Float64 >= t.HighTemp
			}},
		},
	}
}
