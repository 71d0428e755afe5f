package events

import (
	"context"
	"fmt"

	"dining-search/internal/common/config"
)

// New builds the publisher selected by configuration.
func New(ctx context.Context, cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Driver {
	case config.EventsKafka:
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case config.EventsSNS:
		return NewSNSPublisher(ctx, cfg.SNS.Region, cfg.SNS.TopicARN)
	case config.EventsNone, "":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
