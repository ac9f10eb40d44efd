package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/bootstrap"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/config"
	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/logger"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/service"
)

// result is published on the result topic for every registration message.
type result struct {
	OK     bool                     `json:"ok"`
	Result *service.EquipmentResult `json:"result,omitempty"`
	Error  *apperrors.AppError      `json:"error,omitempty"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	lg := logger.Setup(config.LogLevel(), config.LogPretty())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, lg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer app.Close()

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker()).SetClientID("intake-ingestor")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	resultTopic := config.MQTTResultTopic()
	handler := func(c mqtt.Client, msg mqtt.Message) {
		out := register(ctx, app.Services, msg.Payload())
		payload, err := json.Marshal(out)
		if err != nil {
			log.Error().Err(err).Msg("encode result")
			return
		}
		if token := c.Publish(resultTopic, 1, false, payload); token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", resultTopic).Msg("publish result failed")
		}
	}

	topic := config.MQTTRegisterTopic()
	if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()

	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Services.Drain(drainCtx); err != nil {
		log.Warn().Err(err).Msg("queued dispatches still running at exit")
	}
}

func register(ctx context.Context, svcs *service.Services, payload []byte) result {
	var req service.EquipmentRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Error().Err(err).Msg("malformed registration message")
		return result{Error: apperrors.NewValidationError("invalid message body", err.Error())}
	}

	res, err := svcs.Equipment.Register(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("facility_id", req.FacilityID).Msg("ingest failed")
		appErr, ok := apperrors.As(err)
		if !ok {
			appErr = apperrors.NewInternalError(err.Error())
		}
		return result{Error: appErr}
	}
	return result{OK: true, Result: &res}
}
