// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"buzz-workers/internal/common/errors"
)

const EventCalibrationCompleted = "buzz.calibration.completed"

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// CalibrationEvent is the message body sent after a calibration run is stored.
type CalibrationEvent struct {
	RunID        string    `json:"runId"`
	Scope        string    `json:"scope"`
	Status       string    `json:"status"`
	SampleSize   int       `json:"sampleSize"`
	Correlation  float64   `json:"correlation"`
	TableVersion string    `json:"tableVersion"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CalibrationPublisher struct {
	client   SNSService
	topicARN string
}

func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

func NewCalibrationPublisher(client SNSService, topicARN string) *CalibrationPublisher {
	return &CalibrationPublisher{client: client, topicARN: topicARN}
}

// Publish sends event to the configured topic. The scope and status are
// copied into message attributes so subscribers can filter on them.
func (p *CalibrationPublisher) Publish(ctx context.Context, event CalibrationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.NewEventPublishFailedError(p.topicARN, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(EventCalibrationCompleted),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"scope":  {DataType: aws.String("String"), StringValue: aws.String(event.Scope)},
			"status": {DataType: aws.String("String"), StringValue: aws.String(event.Status)},
		},
	})
	if err != nil {
		return errors.NewEventPublishFailedError(p.topicARN, err)
	}
	return nil
}
