package bus

import (
	"fmt"
	"strings"

	"github.com/edurag/ragmark/internal/pkg/errors"
	"github.com/edurag/ragmark/internal/pkg/logger"
)

// Config holds event bus settings. It mirrors the bus section of the
// application configuration without importing it (avoids an import cycle).
type Config struct {
	Type          string
	KafkaBrokers  string
	ConsumerGroup string
}

// New creates a Bus instance based on the configuration.
func New(cfg Config, log *logger.Logger) (Bus, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory", "":
		return NewMemoryBus(log), nil

	case "kafka":
		brokers := ParseKafkaBrokers(cfg.KafkaBrokers)
		if len(brokers) == 0 {
			return nil, errors.New(errors.CodeValidation, "kafka brokers not configured")
		}

		consumerGroup := cfg.ConsumerGroup
		if consumerGroup == "" {
			consumerGroup = "ragmark"
		}

		return NewKafkaBus(KafkaConfig{
			Brokers:       brokers,
			ConsumerGroup: consumerGroup,
			ClientID:      "ragmark-bus",
		}, log)

	default:
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown bus type: %s", cfg.Type))
	}
}
