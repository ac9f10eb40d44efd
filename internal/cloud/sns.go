package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

const TargetMaintenanceAlert = "maintenance_alert"

// Publisher is the subset of the SNS API the alert target needs.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes maintenance alerts for equipment registered in poor condition.
type SNSClient struct {
	svc      Publisher
	topicArn string
}

// NewSNSClient creates a new SNS client from the default credential chain
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), topicArn), nil
}

func NewSNSClientWithAPI(api Publisher, topicArn string) *SNSClient {
	return &SNSClient{svc: api, topicArn: topicArn}
}

func (c *SNSClient) Name() string { return TargetMaintenanceAlert }

// Wants skips equipment in Good condition.
func (c *SNSClient) Wants(ev domain.EquipmentEvent) bool {
	return ev.Condition != "" && ev.Condition != domain.ConditionGood
}

func (c *SNSClient) Deliver(ctx context.Context, ev domain.EquipmentEvent) (int, error) {
	subject, message := MaintenanceAlert(ev)
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}
	if _, err := c.svc.Publish(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return 0, nil
}

// MaintenanceAlert formats the alert subject and body for ev.
func MaintenanceAlert(ev domain.EquipmentEvent) (string, string) {
	subject := fmt.Sprintf("Maintenance Alert: %s %s", ev.Category, ev.Condition)
	var b strings.Builder
	fmt.Fprintf(&b, "Equipment Maintenance Required\n\n")
	fmt.Fprintf(&b, "Facility: %s\n", ev.FacilityID)
	fmt.Fprintf(&b, "Equipment ID: %s\n", ev.EquipmentID)
	fmt.Fprintf(&b, "Type: %s\n", ev.Category)
	fmt.Fprintf(&b, "Efficiency Score: %d\n", ev.EfficiencyScore)
	fmt.Fprintf(&b, "Condition: %s\n", ev.Condition)
	fmt.Fprintf(&b, "Next Service: %s\n", ev.NextService)
	if ev.ComplianceRuleset != "" {
		fmt.Fprintf(&b, "Compliance: %s\n", ev.ComplianceRuleset)
	}
	if len(ev.SuggestedActions) > 0 {
		b.WriteString("\nSuggested actions:\n")
		for i, a := range ev.SuggestedActions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, a)
		}
	}
	return subject, b.String()
}
