package gatekeeper

import (
	"Feedcore/internal/pkg/redis"
	"context"
	"strconv"
)

const keyPrefix = "gatekeeper:"

// 已知的功能开关
const (
	SwitchNewsFeedToHBase   = "switch_newsfeed_to_hbase"
	SwitchFriendshipToHBase = "switch_friendship_to_hbase"
)

// Gate 开关状态，Percent 为 100 表示全量开启
type Gate struct {
	Percent     int
	Description string
}

// GateKeeper 保存在 Redis 哈希中的功能开关，每次调用都实时读取
type GateKeeper struct {
	client *redis.Client
}

func New(client *redis.Client) *GateKeeper {
	return &GateKeeper{client: client}
}

// Get 读取开关，不存在时返回零值
func (g *GateKeeper) Get(ctx context.Context, name string) (Gate, error) {
	fields, err := g.client.HGetAll(ctx, keyPrefix+name)
	if err != nil {
		return Gate{}, err
	}
	gate := Gate{Description: fields["description"]}
	if raw, ok := fields["percent"]; ok {
		gate.Percent, _ = strconv.Atoi(raw)
	}
	return gate, nil
}

// SetKV 设置开关的某个字段
func (g *GateKeeper) SetKV(ctx context.Context, name, key string, value any) error {
	return g.client.HSet(ctx, keyPrefix+name, key, value)
}

// TurnOn 全量开启
func (g *GateKeeper) TurnOn(ctx context.Context, name string) error {
	return g.SetKV(ctx, name, "percent", 100)
}

// TurnOff 全量关闭
func (g *GateKeeper) TurnOff(ctx context.Context, name string) error {
	return g.SetKV(ctx, name, "percent", 0)
}

// IsSwitchOn percent 为 100 时开启
func (g *GateKeeper) IsSwitchOn(ctx context.Context, name string) (bool, error) {
	gate, err := g.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return gate.Percent == 100, nil
}

// InGK 按用户 ID 灰度
func (g *GateKeeper) InGK(ctx context.Context, name string, userID uint64) (bool, error) {
	gate, err := g.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return userID%100 < uint64(max(gate.Percent, 0)), nil
}
