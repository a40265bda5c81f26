package kafka_client

import "github.com/spacesedan/marketpulse/config"

type KafkaConfig struct {
	Broker        string
	GroupID       string
	CommandTopic  string
	OutboundTopic string
}

func GetKafkaConfig(cfg config.KafkaConfig) KafkaConfig {
	return KafkaConfig{
		Broker:        cfg.Broker,
		GroupID:       cfg.GroupID,
		CommandTopic:  cfg.CommandTopic,
		OutboundTopic: cfg.OutboundTopic,
	}
}
