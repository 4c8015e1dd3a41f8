package task

import (
	"Feedcore/internal/pkg/util"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Message 任务消息，Payload 为任务参数的 JSON
type Message struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"`
	EnqueuedAt int64           `json:"enqueued_at"`
	LastError  string          `json:"last_error,omitempty"`
	Redrive    int             `json:"redrive,omitempty"` // 从死信重新投递的次数
}

func NewMessage(name string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    data,
		EnqueuedAt: util.NowMicros(),
	}, nil
}

// Decode 解析任务参数
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}

func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
