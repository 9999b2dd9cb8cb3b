package service

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
	"github.com/wastewatch/bin-fleet-monitor/internal/repository"
)

type Services struct {
	Repos    *repository.Repos
	Readings *ReadingService
	Numeric  Policy
}

func New(db *sqlx.DB, thresholds Thresholds) *Services {
	repos := repository.New(db)
	return &Services{
		Repos:    repos,
		Readings: &ReadingService{repos: repos},
		Numeric:  NumericThresholdPolicy(thresholds),
	}
}

type ReadingService struct {
	repos *repository.Repos
}

// FromMQTT decodes one device report and stores it. Malformed numeric fields
// default through the wire codec; only an undecodable payload or a missing
// device id rejects the message.
func (s *ReadingService) FromMQTT(topic string, payload []byte) error {
	var rd domain.Reading
	if err := json.Unmarshal(payload, &rd); err != nil {
		return err
	}
	if rd.DeviceID == "" {
		return ErrMissingDeviceID
	}
	return s.repos.InsertReading(&rd)
}
