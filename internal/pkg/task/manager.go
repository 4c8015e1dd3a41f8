package task

import (
	"Feedcore/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumer struct {
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 每个任务 topic 一个消费者组
type ConsumerManager struct {
	consumers []consumer
}

func NewConsumerManager(cfg *config.Config, runner *Runner) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	m := &ConsumerManager{}
	for _, topicCfg := range []config.KafkaTopicConfig{cfg.KafkaFanoutMain, cfg.KafkaFanoutBatch} {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, topicCfg.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, consumer{
			topic:   topicCfg.Topic,
			group:   group,
			handler: NewTaskHandler(topicCfg.Topic, runner),
		})
	}
	return m, nil
}

// Start 启动所有消费者，ctx 结束后关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, c := range m.consumers {
		wg.Add(1)
		go func(c consumer) {
			defer wg.Done()
			log.Info("task consumer started", "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "topic", c.topic, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Task consumer manager shutting down...")
	wg.Wait()
	m.close()
	return nil
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "topic", c.topic, "err", err)
		}
	}
}
