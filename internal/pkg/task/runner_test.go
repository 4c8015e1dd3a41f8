package task

import (
	"Feedcore/internal/pkg/testutil"
	"Feedcore/internal/pkg/widecolumn"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoPayload struct {
	Value int `json:"value"`
}

func newTestRunner(t *testing.T, maxAttempts int) (*Runner, *RedisDeadLetter) {
	t.Helper()
	client, _ := testutil.NewRedis(t)
	deadLetter := NewRedisDeadLetter(client, "test:dead_letter")
	runner := NewRunner(deadLetter, maxAttempts, time.Minute)
	runner.RetryInterval = time.Millisecond
	runner.MaxInterval = 2 * time.Millisecond
	return runner, deadLetter
}

func TestRunnerProcessSuccess(t *testing.T) {
	ctx := context.Background()
	runner, deadLetter := newTestRunner(t, 3)

	var got echoPayload
	require.NoError(t, runner.Register("echo", func(ctx context.Context, msg *Message) (string, error) {
		return "ok", msg.Decode(&got)
	}))
	assert.ErrorIs(t, runner.Register("echo", nil), ErrDuplicateTask)

	msg, err := NewMessage("echo", echoPayload{Value: 7})
	require.NoError(t, err)
	require.NoError(t, NewEagerQueue(runner).Enqueue(ctx, msg))
	assert.Equal(t, 7, got.Value)
	assert.Equal(t, 1, msg.Attempt)

	n, err := deadLetter.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunnerRetriesThenSucceeds(t *testing.T) {
	runner, _ := newTestRunner(t, 5)
	calls := 0
	require.NoError(t, runner.Register("flaky", func(ctx context.Context, msg *Message) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("try again")
		}
		return "done", nil
	}))

	msg, err := NewMessage("flaky", nil)
	require.NoError(t, err)
	require.NoError(t, runner.Process(context.Background(), msg))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, msg.Attempt)
}

func TestRunnerDeadLettersAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	runner, deadLetter := newTestRunner(t, 3)
	calls := 0
	require.NoError(t, runner.Register("broken", func(ctx context.Context, msg *Message) (string, error) {
		calls++
		return "", errors.New("boom")
	}))

	msg, err := NewMessage("broken", echoPayload{Value: 1})
	require.NoError(t, err)
	require.NoError(t, runner.Process(ctx, msg))
	assert.Equal(t, 3, calls)

	buried, err := deadLetter.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, buried)
	assert.Equal(t, msg.ID, buried.ID)
	assert.Equal(t, "boom", buried.LastError)
	assert.Equal(t, 3, buried.Attempt)

	empty, err := deadLetter.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestRunnerPermanentErrorsAreNotRetried(t *testing.T) {
	ctx := context.Background()
	runner, deadLetter := newTestRunner(t, 5)
	calls := 0
	require.NoError(t, runner.Register("bad_key", func(ctx context.Context, msg *Message) (string, error) {
		calls++
		return "", &widecolumn.RowKeyError{Table: "hbase_newsfeeds", Field: "user_id", Msg: "missing"}
	}))

	msg, err := NewMessage("bad_key", nil)
	require.NoError(t, err)
	require.NoError(t, runner.Process(ctx, msg))
	assert.Equal(t, 1, calls)

	unknown, err := NewMessage("missing_handler", nil)
	require.NoError(t, err)
	require.NoError(t, runner.Process(ctx, unknown))

	n, err := deadLetter.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPermanent(t *testing.T) {
	base := errors.New("invalid payload")
	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}

func TestKafkaQueueEnqueue(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		msg, err := DecodeMessage(val)
		if err != nil {
			return err
		}
		if msg.Name != "echo" {
			return errors.New("unexpected task name " + msg.Name)
		}
		return nil
	})

	queue := NewKafkaQueue(producer, map[string]string{"echo": "tasks.echo"})
	msg, err := NewMessage("echo", echoPayload{Value: 1})
	require.NoError(t, err)
	require.NoError(t, queue.Enqueue(context.Background(), msg))

	other, err := NewMessage("unrouted", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, queue.Enqueue(context.Background(), other), ErrNoRoute)

	require.NoError(t, queue.Close())
}

func TestTaskHandlerLogic(t *testing.T) {
	runner, _ := newTestRunner(t, 1)
	var got echoPayload
	require.NoError(t, runner.Register("echo", func(ctx context.Context, msg *Message) (string, error) {
		return "ok", msg.Decode(&got)
	}))
	handler := NewTaskHandler("tasks.echo", runner)

	msg, err := NewMessage("echo", echoPayload{Value: 9})
	require.NoError(t, err)
	data, err := msg.Encode()
	require.NoError(t, err)

	require.NoError(t, handler.logic(context.Background(), &sarama.ConsumerMessage{Topic: "tasks.echo", Value: data}))
	assert.Equal(t, 9, got.Value)

	// 无法解析的消息被丢弃
	require.NoError(t, handler.logic(context.Background(), &sarama.ConsumerMessage{Topic: "tasks.echo", Value: []byte("{")}))
}
