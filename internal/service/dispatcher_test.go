package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

// recordingNotifier captures sink calls and fails for configured devices.
type recordingNotifier struct {
	mu      sync.Mutex
	calls   []sinkCall
	failFor map[string]bool
}

type sinkCall struct {
	deviceID string
	level    domain.Metric
	pos      *domain.Position
}

func (n *recordingNotifier) SendAlert(_ context.Context, deviceID string, level domain.Metric, pos *domain.Position) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, sinkCall{deviceID, level, pos})
	if n.failFor[deviceID] {
		return errors.New("sink rejected")
	}
	return nil
}

func (n *recordingNotifier) calledDevices() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := map[string]int{}
	for _, c := range n.calls {
		out[c.deviceID]++
	}
	return out
}

func fullBin(id string, height float64) domain.DeviceState {
	return domain.DeviceState{
		DeviceID:  id,
		Height:    domain.F(height),
		FullAlarm: domain.AlarmTriggered,
		Latitude:  domain.F(13.05),
		Longitude: domain.F(80.21),
	}
}

func TestDispatcher_NotifiesOncePerQualifyingDevice(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, nil, zerolog.Nop())

	report := d.Run(context.Background(), []domain.DeviceState{
		fullBin("A1", 96),
		{DeviceID: "B2", Height: domain.F(40)}, // normal, no call
		fullBin("C3", 98),
	})

	assert.Equal(t, 3, report.Evaluated)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, map[string]int{"A1": 1, "C3": 1}, sink.calledDevices())
}

func TestDispatcher_FailureIsolatedPerDevice(t *testing.T) {
	sink := &recordingNotifier{failFor: map[string]bool{"B2": true}}
	d := NewDispatcher(sink, nil, zerolog.Nop())

	report := d.Run(context.Background(), []domain.DeviceState{
		fullBin("A1", 96),
		fullBin("B2", 97),
		fullBin("C3", 98),
	})

	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	// The failing device's neighbors were still attempted.
	assert.Equal(t, map[string]int{"A1": 1, "B2": 1, "C3": 1}, sink.calledDevices())
}

func TestDispatcher_CarriesLevelAndPosition(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, nil, zerolog.Nop())

	d.Run(context.Background(), []domain.DeviceState{fullBin("A1", 96)})

	require.Len(t, sink.calls, 1)
	assert.Equal(t, "A1", sink.calls[0].deviceID)
	assert.Equal(t, 96.0, sink.calls[0].level.Float64)
	require.NotNil(t, sink.calls[0].pos)
	assert.Equal(t, 13.05, sink.calls[0].pos.Latitude)
}

func TestDispatcher_MissingPositionSendsNil(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, nil, zerolog.Nop())

	st := domain.DeviceState{DeviceID: "A1", FullAlarm: domain.AlarmTriggered}
	d.Run(context.Background(), []domain.DeviceState{st})

	require.Len(t, sink.calls, 1)
	assert.Nil(t, sink.calls[0].pos)
}

func TestDispatcher_BaselineRenotifiesEveryRun(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, nil, zerolog.Nop())
	states := []domain.DeviceState{fullBin("A1", 96)}

	d.Run(context.Background(), states)
	d.Run(context.Background(), states)

	// No cross-run memory without a cooldown store.
	assert.Equal(t, map[string]int{"A1": 2}, sink.calledDevices())
}

type fakeCooldown struct {
	mu     sync.Mutex
	marked map[string]bool
	err    error
}

func (f *fakeCooldown) key(id string, c domain.AlertCondition) string { return id + "/" + string(c) }

func (f *fakeCooldown) Allow(_ context.Context, id string, c domain.AlertCondition) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return !f.marked[f.key(id, c)], nil
}

func (f *fakeCooldown) Mark(_ context.Context, id string, c domain.AlertCondition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.marked == nil {
		f.marked = map[string]bool{}
	}
	f.marked[f.key(id, c)] = true
	return nil
}

func TestDispatcher_CooldownSuppressesRepeats(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, &fakeCooldown{}, zerolog.Nop())
	states := []domain.DeviceState{fullBin("A1", 96)}

	first := d.Run(context.Background(), states)
	second := d.Run(context.Background(), states)

	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.Suppressed)
	assert.Equal(t, map[string]int{"A1": 1}, sink.calledDevices())
}

func TestDispatcher_NewConditionBreaksCooldown(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, &fakeCooldown{}, zerolog.Nop())

	d.Run(context.Background(), []domain.DeviceState{fullBin("A1", 96)})

	// Same device, but a fire alarm appears: that condition is fresh.
	withFire := fullBin("A1", 96)
	withFire.FireAlarm = domain.AlarmTriggered
	report := d.Run(context.Background(), []domain.DeviceState{withFire})

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, map[string]int{"A1": 2}, sink.calledDevices())
}

func TestDispatcher_CooldownErrorFailsOpen(t *testing.T) {
	sink := &recordingNotifier{}
	d := NewDispatcher(sink, &fakeCooldown{err: errors.New("store down")}, zerolog.Nop())

	report := d.Run(context.Background(), []domain.DeviceState{fullBin("A1", 96)})

	// An unreachable cooldown store must not silence alerts.
	assert.Equal(t, 1, report.Sent)
}
