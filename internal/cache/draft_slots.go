package cache

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DraftSlotStore 基于 Redis 的草稿槽位存储，键为 <prefix>:drafts:<slot>，不设置过期
type DraftSlotStore struct {
	client *redis.Client
	prefix string
}

// NewDraftSlotStore 创建 Redis 草稿槽位存储
func NewDraftSlotStore(client *redis.Client, prefix string) *DraftSlotStore {
	return &DraftSlotStore{client: client, prefix: strings.TrimSpace(prefix) + ":drafts"}
}

// SaveSlot 覆盖写入槽位
func (s *DraftSlotStore) SaveSlot(ctx context.Context, slot string, payload []byte) error {
	if s == nil || s.client == nil {
		return errors.New("redis draft store is not configured")
	}
	return s.client.Set(ctx, s.prefix+":"+slot, payload, 0).Err()
}

// LoadSlot 读取槽位，不存在时返回 (nil, nil)
func (s *DraftSlotStore) LoadSlot(ctx context.Context, slot string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis draft store is not configured")
	}
	payload, err := s.client.Get(ctx, s.prefix+":"+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}
