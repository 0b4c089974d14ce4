package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// CurrentSchemaVersion 持久化信封版本
// v0: 早期裸 JSON 数组；v1: {version, drafts, saved_at}
const CurrentSchemaVersion = 1

// Persistence 草稿集合的持久化适配器
type Persistence interface {
	Save(ctx context.Context, drafts []Draft) error
	// Load 返回 nil 表示没有可用的保存状态
	Load(ctx context.Context) ([]Draft, error)
}

// SlotStore 按槽位读写原始字节的存储
// Load 在槽位为空时返回 (nil, nil)
type SlotStore interface {
	SaveSlot(ctx context.Context, slot string, payload []byte) error
	LoadSlot(ctx context.Context, slot string) ([]byte, error)
}

type envelope struct {
	Version int       `json:"version"`
	Drafts  []Draft   `json:"drafts"`
	SavedAt time.Time `json:"saved_at"`
}

// SlotPersistence 将草稿集合序列化到指定槽位
type SlotPersistence struct {
	store SlotStore
	slot  string
	now   func() time.Time
}

// NewSlotPersistence 创建槽位持久化适配器
func NewSlotPersistence(store SlotStore, slot string) *SlotPersistence {
	return &SlotPersistence{
		store: store,
		slot:  strings.TrimSpace(slot),
		now:   time.Now,
	}
}

// Slot 槽位名称
func (p *SlotPersistence) Slot() string {
	return p.slot
}

// Save 覆盖写入整个草稿集合
func (p *SlotPersistence) Save(ctx context.Context, drafts []Draft) error {
	if p == nil || p.store == nil {
		return nil
	}
	payload, err := EncodeDrafts(drafts, p.now())
	if err != nil {
		return err
	}
	return p.store.SaveSlot(ctx, p.slot, payload)
}

// Load 读取草稿集合；槽位为空时返回 nil
func (p *SlotPersistence) Load(ctx context.Context) ([]Draft, error) {
	if p == nil || p.store == nil {
		return nil, nil
	}
	payload, err := p.store.LoadSlot(ctx, p.slot)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	return DecodeDrafts(payload)
}

// EncodeDrafts 编码为当前版本信封
func EncodeDrafts(drafts []Draft, savedAt time.Time) ([]byte, error) {
	if drafts == nil {
		drafts = []Draft{}
	}
	return json.Marshal(envelope{
		Version: CurrentSchemaVersion,
		Drafts:  drafts,
		SavedAt: savedAt.UTC(),
	})
}

// DecodeDrafts 解码持久化内容，兼容 v0 裸数组
func DecodeDrafts(payload []byte) ([]Draft, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var legacy []Draft
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy drafts failed: %w", err)
		}
		return legacy, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode drafts envelope failed: %w", err)
	}
	if env.Version < 1 || env.Version > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return env.Drafts, nil
}

// MemoryStore 进程内槽位存储
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

// SaveSlot 写入槽位
func (s *MemoryStore) SaveSlot(_ context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = append([]byte(nil), payload...)
	return nil
}

// LoadSlot 读取槽位
func (s *MemoryStore) LoadSlot(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}
