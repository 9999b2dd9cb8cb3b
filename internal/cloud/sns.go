package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SMSClient wraps AWS SNS for direct-to-phone SMS delivery.
type SMSClient struct {
	svc *sns.Client
}

func NewSMSClient(ctx context.Context, region string) (*SMSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SMSClient{svc: sns.NewFromConfig(cfg)}, nil
}

// SendSMS publishes one message straight to a phone number.
func (c *SMSClient) SendSMS(ctx context.Context, to, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if _, err := c.svc.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish SMS to %s: %w", to, err)
	}
	return nil
}
