package task

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// TaskHandler 消费任务 topic 并交给 Runner 执行
type TaskHandler struct {
	topic  string
	runner *Runner
}

func NewTaskHandler(topic string, runner *Runner) *TaskHandler {
	return &TaskHandler{topic: topic, runner: runner}
}

func (s *TaskHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("task consumer setup", "topic", s.topic)
	return nil
}

func (s *TaskHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("task consumer cleanup", "topic", s.topic)
	return nil
}

func (s *TaskHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("task consume claim error", "topic", s.topic, "err", err)
		return err
	}
	return nil
}

func (s *TaskHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	taskMsg, err := DecodeMessage(msg.Value)
	if err != nil {
		// 无法解析的消息直接丢弃
		log.Error("decode task message error", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		return nil
	}
	if err = s.runner.Process(ctx, taskMsg); err != nil {
		return errors.Wrapf(err, "process task %s", taskMsg.ID)
	}
	return nil
}
