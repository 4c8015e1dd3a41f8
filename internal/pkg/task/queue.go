package task

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
)

// Queue 任务投递
type Queue interface {
	Enqueue(ctx context.Context, msg *Message) error
}

// EagerQueue 在当前协程内同步执行任务，用于测试与本地运行
type EagerQueue struct {
	runner *Runner
}

func NewEagerQueue(runner *Runner) *EagerQueue {
	return &EagerQueue{runner: runner}
}

func (q *EagerQueue) Enqueue(ctx context.Context, msg *Message) error {
	return q.runner.Process(ctx, msg)
}

// KafkaQueue 按任务名投递到对应 topic，消息 key 为任务 ID
type KafkaQueue struct {
	producer sarama.SyncProducer
	routes   map[string]string
}

func NewKafkaQueue(producer sarama.SyncProducer, routes map[string]string) *KafkaQueue {
	return &KafkaQueue{producer: producer, routes: routes}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, msg *Message) error {
	topic, ok := q.routes[msg.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRoute, msg.Name)
	}
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	_, _, err = q.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(msg.ID),
		Value: sarama.ByteEncoder(data),
	})
	return err
}

func (q *KafkaQueue) Close() error {
	return q.producer.Close()
}
