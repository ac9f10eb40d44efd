package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

const TargetArchive = "archive"

// ObjectPutter is the subset of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client archives finalized equipment events as JSON objects.
type S3Client struct {
	svc    ObjectPutter
	bucket string
}

// NewS3Client creates a new S3 client from the default credential chain
func NewS3Client(ctx context.Context, region, bucket string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3ClientWithAPI(s3.NewFromConfig(cfg), bucket), nil
}

func NewS3ClientWithAPI(api ObjectPutter, bucket string) *S3Client {
	return &S3Client{svc: api, bucket: bucket}
}

// ArchiveKey is equipment/<facility_id>/<equipment_id>.json
func ArchiveKey(ev domain.EquipmentEvent) string {
	id := ev.EquipmentID
	if id == "" {
		id = fmt.Sprintf("unregistered-%d", ev.Timestamp.UnixNano())
	}
	return fmt.Sprintf("equipment/%s/%s.json", ev.FacilityID, id)
}

func (c *S3Client) Name() string { return TargetArchive }

// Deliver uploads the event; the returned status is always 0.
func (c *S3Client) Deliver(ctx context.Context, ev domain.EquipmentEvent) (int, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(ArchiveKey(ev)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"uploaded-at":   time.Now().UTC().Format(time.RFC3339),
			"logger-module": string(ev.LoggerModule),
		},
	}

	if _, err := c.svc.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to upload to S3: %w", err)
	}
	return 0, nil
}
