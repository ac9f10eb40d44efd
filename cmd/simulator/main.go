package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/config"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/extract"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/logger"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Setup(config.LogLevel(), config.LogPretty())

	facilityID := config.SimFacilityID()
	if facilityID == "" {
		log.Fatal().Msg("SIM_FACILITY_ID is required")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker()).SetClientID("intake-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTRegisterTopic()
	for i := 0; i < config.SimCount(); i++ {
		specs, err := extract.Stub{}.Extract(context.Background(), []byte("simulated nameplate"))
		if err != nil {
			log.Fatal().Err(err).Msg("extract")
		}
		payload, _ := json.Marshal(requestFor(facilityID, specs, i))
		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Error().Err(token.Error()).Int("n", i).Msg("publish failed")
		}
		time.Sleep(config.SimInterval())
	}
	log.Info().Int("published", config.SimCount()).Msg("simulation done")
}

func requestFor(facilityID string, s extract.Specs, n int) service.EquipmentRequest {
	model := fmt.Sprintf("SIM-%03d", n+1)
	return service.EquipmentRequest{
		FacilityID:    facilityID,
		Category:      s.Category,
		Brand:         &s.Brand,
		Model:         &model,
		RPM:           &s.RPM,
		HP:            &s.HP,
		Voltage:       &s.Voltage,
		Displacement:  &s.Displacement,
		SensorEnabled: n%2 == 0,
		UploadedBy:    "simulator",
	}
}
