package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/wastewatch/bin-fleet-monitor/internal/config"
	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	for i := 0; i < 200; i++ {
		rd := randomReading(fmt.Sprintf("bin-%03d", rand.Intn(10)+1))
		payload, _ := json.Marshal(rd)
		token := client.Publish(config.MQTTTopic(), 0, false, payload)
		token.Wait()
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}

func randomReading(deviceID string) domain.Reading {
	rd := domain.Reading{
		DeviceID:     deviceID,
		Timestamp:    domain.Ts(time.Now()),
		Height:       domain.F(20 + rand.Float64()*80),
		Temperature:  domain.F(20 + rand.Float64()*30),
		Volt:         domain.F(10 + rand.Float64()*5),
		Angle:        domain.F(rand.Float64() * 15),
		RSRP:         domain.F(-120 + rand.Float64()*40),
		FrameCounter: domain.F(float64(rand.Intn(10000))),
		Latitude:     domain.F(13.04 + rand.Float64()*0.1),
		Longitude:    domain.F(80.17 + rand.Float64()*0.1),
	}
	// A slice of devices report a triggered full alarm; a few drop their fix.
	if rand.Intn(10) == 0 {
		rd.FullAlarm = domain.AlarmTriggered
		rd.Height = domain.F(96 + rand.Float64()*4)
	}
	if rand.Intn(20) == 0 {
		rd.Latitude = domain.Metric{}
		rd.Longitude = domain.Metric{}
	}
	return rd
}
