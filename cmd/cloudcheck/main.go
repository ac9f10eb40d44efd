// Command cloudcheck delivers one sample equipment event to the configured S3 archive
// and SNS alert topic and reports each outcome.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/cloud"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/config"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/dispatch"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/extract"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/logger"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	lg := logger.Setup(config.LogLevel(), config.LogPretty())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var targets []dispatch.Target
	s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
	if err != nil {
		log.Fatal().Err(err).Msg("s3 client")
	}
	targets = append(targets, s3c)
	if arn := config.SNSTopicArn(); arn != "" {
		snsc, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn)
		if err != nil {
			log.Fatal().Err(err).Msg("sns client")
		}
		targets = append(targets, snsc)
	}

	specs, _ := extract.Stub{}.Extract(ctx, []byte("cloudcheck"))
	ev := domain.EquipmentEvent{
		EquipmentID:     "cloudcheck",
		FacilityID:      "cloudcheck",
		Category:        specs.Category,
		Brand:           specs.Brand,
		RPM:             specs.RPM,
		HP:              specs.HP,
		Voltage:         specs.Voltage,
		Displacement:    specs.Displacement,
		EfficiencyScore: 68,
		Condition:       domain.ConditionCritical,
		Timestamp:       time.Now().UTC(),
		UploadedBy:      "cloudcheck",
	}

	d := dispatch.New(dispatch.Options{Timeout: config.DispatchTimeout(), Logger: lg})
	report := d.Send(ctx, ev, targets)
	for name, out := range report.Results {
		log.Info().Str("target", name).Bool("succeeded", out.Succeeded).Str("error", report.Errors[name]).Msg("cloud target checked")
	}
	if !report.Success {
		log.Fatal().Msg("cloud check failed")
	}
	log.Info().Str("archive_key", cloud.ArchiveKey(ev)).Msg("cloud check passed")
}
