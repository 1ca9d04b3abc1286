package kafka

import (
	"context"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"kafka",
	fx.Provide(NewPublisherFx),
)

func NewPublisherFx(lc fx.Lifecycle, cfg *config.KafkaConfig, log zerolog.Logger) (*Publisher, error) {
	if !cfg.Enabled {
		log.Info().Msg("kafka disabled, domain events will not be published")
		return NewPublisher(nil, cfg.TopicPrefix, log), nil
	}

	publisher, err := NewKafkaPublisher(cfg.Brokers, cfg.TopicPrefix, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing kafka producer...")
			return publisher.Close()
		},
	})

	return publisher, nil
}
