package listcache

import (
	"fmt"

	"github.com/goccy/go-json"
)

// JSONSerializer 直接以 JSON 存储元素
type JSONSerializer[T any] struct{}

func (JSONSerializer[T]) Serialize(obj T) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSONSerializer[T]) Deserialize(data string) (T, error) {
	var obj T
	err := json.Unmarshal([]byte(data), &obj)
	return obj, err
}

// Envelope 带类型标签的缓存载荷，同一列表中可以混存不同来源的行
type Envelope struct {
	Model string          `json:"model"`
	Data  json.RawMessage `json:"data"`
}

// Wrap 序列化为带标签的载荷
func Wrap(model string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(Envelope{Model: model, Data: data})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Unwrap 解析带标签的载荷
func Unwrap(payload string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, err
	}
	if env.Model == "" {
		return nil, fmt.Errorf("cache payload without model tag: %s", payload)
	}
	return &env, nil
}
