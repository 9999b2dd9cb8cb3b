package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

const readingColumns = `token_id, timestamp, height, temperature, volt, angle, rsrp,
	frame_counter, longitude, latitude, full_alarm, fire_alarm, tilt_alarm, battery_alarm`

// ListReadings returns the full current snapshot of device readings, in no
// particular order. Callers own any latest-per-device reduction.
func (r *Repos) ListReadings() ([]domain.Reading, error) {
	var out []domain.Reading
	err := r.db.Select(&out, `SELECT `+readingColumns+` FROM device_readings`)
	return out, err
}

func (r *Repos) InsertReading(rd *domain.Reading) error {
	_, err := r.db.Exec(`INSERT INTO device_readings(`+readingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rd.DeviceID, rd.Timestamp, rd.Height, rd.Temperature, rd.Volt, rd.Angle,
		rd.RSRP, rd.FrameCounter, rd.Longitude, rd.Latitude,
		rd.FullAlarm, rd.FireAlarm, rd.TiltAlarm, rd.BatteryAlarm)
	return err
}

func (r *Repos) ListGroups() ([]domain.BinGroup, error) {
	var out []domain.BinGroup
	err := r.db.Select(&out, `SELECT id, name, device_ids FROM bin_groups ORDER BY name`)
	return out, err
}

func (r *Repos) SaveGroup(g *domain.BinGroup) error {
	_, err := r.db.Exec(`INSERT INTO bin_groups(name, device_ids) VALUES ($1,$2)
		ON CONFLICT (name) DO UPDATE SET device_ids = EXCLUDED.device_ids`,
		g.Name, g.DeviceIDs)
	return err
}

func (r *Repos) DeleteGroup(name string) error {
	_, err := r.db.Exec(`DELETE FROM bin_groups WHERE name = $1`, name)
	return err
}
