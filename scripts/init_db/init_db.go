// Creates the schema the telemetry api and ingestor expect. Safe to re-run.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/wastewatch/bin-fleet-monitor/internal/config"
	"github.com/wastewatch/bin-fleet-monitor/internal/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS device_readings (
	id            BIGSERIAL PRIMARY KEY,
	token_id      TEXT NOT NULL,
	timestamp     TIMESTAMPTZ,
	height        DOUBLE PRECISION,
	temperature   DOUBLE PRECISION,
	volt          DOUBLE PRECISION,
	angle         DOUBLE PRECISION,
	rsrp          DOUBLE PRECISION,
	frame_counter DOUBLE PRECISION,
	longitude     DOUBLE PRECISION,
	latitude      DOUBLE PRECISION,
	full_alarm    INTEGER NOT NULL DEFAULT 0,
	fire_alarm    INTEGER NOT NULL DEFAULT 0,
	tilt_alarm    INTEGER NOT NULL DEFAULT 0,
	battery_alarm INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_device_readings_token_ts
	ON device_readings (token_id, timestamp DESC);

CREATE TABLE IF NOT EXISTS bin_groups (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	device_ids JSONB NOT NULL DEFAULT '[]'
);
`

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatal().Err(err).Msg("schema apply failed")
	}
	log.Info().Msg("schema ready")
}
