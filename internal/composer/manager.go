package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSaveTimeout = 3 * time.Second
	draftNameFormat    = "Order #%d"
)

// Option 管理器配置项
type Option func(*Manager)

// WithLogger 指定日志实例
func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithIDGenerator 指定草稿 ID 生成器
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithSaveTimeout 指定单次持久化超时
func WithSaveTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		if timeout > 0 {
			m.saveTimeout = timeout
		}
	}
}

// WithDefaultShippingFee 新建草稿的默认运费
func WithDefaultShippingFee(fee models.Money) Option {
	return func(m *Manager) {
		if !fee.Decimal.IsNegative() {
			m.defaultShipping = fee.Normalized()
		}
	}
}

// Manager 草稿标签页管理器
// 持有有序草稿集合与当前激活指针；集合非空且恰有一个激活草稿。
// Manager 不是并发安全的，调用方需串行访问。
type Manager struct {
	drafts          []Draft
	persistence     Persistence
	tasks           *Tasks
	submitting      map[string]struct{}
	log             *zap.SugaredLogger
	newID           func() string
	saveTimeout     time.Duration
	defaultShipping models.Money
}

// NewManager 创建管理器并从持久化恢复；无可用状态时创建一个空草稿
func NewManager(ctx context.Context, persistence Persistence, opts ...Option) *Manager {
	m := &Manager{
		persistence: persistence,
		tasks:       NewTasks(),
		submitting:  make(map[string]struct{}),
		log:         logger.S(),
		newID:       uuid.NewString,
		saveTimeout: defaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}

	restored := m.restore(ctx)
	if len(restored) == 0 {
		fresh := m.newDraft(1)
		fresh.IsActive = true
		m.drafts = []Draft{fresh}
		return m
	}
	m.drafts = m.normalizeDrafts(restored)
	return m
}

func (m *Manager) restore(ctx context.Context) []Draft {
	if m.persistence == nil {
		return nil
	}
	drafts, err := m.persistence.Load(ctx)
	if err != nil {
		m.log.Warnw("composer_restore_failed", "error", err)
		return nil
	}
	return drafts
}

// Drafts 返回草稿集合副本（按标签顺序）
func (m *Manager) Drafts() []Draft {
	result := make([]Draft, len(m.drafts))
	for i, draft := range m.drafts {
		result[i] = draft.clone()
	}
	return result
}

// Len 草稿数量
func (m *Manager) Len() int {
	return len(m.drafts)
}

// Draft 按 ID 获取草稿副本
func (m *Manager) Draft(id string) (Draft, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return Draft{}, false
	}
	return m.drafts[idx].clone(), true
}

// Active 当前激活草稿副本
func (m *Manager) Active() Draft {
	return m.drafts[m.activeIndex()].clone()
}

// ActiveID 当前激活草稿 ID
func (m *Manager) ActiveID() string {
	return m.drafts[m.activeIndex()].ID
}

// BeginTask 为草稿登记异步任务；草稿不存在时返回 ErrDraftNotFound，提交中返回 ErrSubmitInProgress
func (m *Manager) BeginTask(ctx context.Context, draftID string) (context.Context, func(), error) {
	if err := m.writable(draftID); err != nil {
		return nil, nil, err
	}
	taskCtx, done := m.tasks.Begin(ctx, draftID)
	return taskCtx, done, nil
}

// BeginSubmit 标记草稿进入提交；标记期间草稿不可修改、关闭或再次提交
// 结束回调解除标记，提交成功时应先调用 RemoveSubmitted
func (m *Manager) BeginSubmit(ctx context.Context, draftID string) (context.Context, func(), error) {
	if err := m.writable(draftID); err != nil {
		return nil, nil, err
	}
	id := strings.TrimSpace(draftID)
	m.submitting[id] = struct{}{}
	taskCtx, done := m.tasks.Begin(ctx, id)
	return taskCtx, func() {
		delete(m.submitting, id)
		done()
	}, nil
}

// Submitting 草稿是否正在提交
func (m *Manager) Submitting(draftID string) bool {
	_, ok := m.submitting[strings.TrimSpace(draftID)]
	return ok
}

// CreateDraft 追加空草稿并激活，名称为 "Order #N"（N = 当前数量 + 1）
func (m *Manager) CreateDraft() string {
	draft := m.newDraft(len(m.drafts) + 1)
	for i := range m.drafts {
		m.drafts[i].IsActive = false
	}
	draft.IsActive = true
	m.drafts = append(m.drafts, draft)
	m.log.Debugw("composer_draft_created", "draft_id", draft.ID, "name", draft.Name)
	m.persist()
	return draft.ID
}

// CloseDraft 关闭草稿；仅剩一个草稿、ID 不存在或正在提交时无操作
func (m *Manager) CloseDraft(id string) bool {
	if len(m.drafts) <= 1 || m.Submitting(id) {
		return false
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}
	m.removeAt(idx)
	m.log.Debugw("composer_draft_closed", "draft_id", id)
	m.persist()
	return true
}

// SwitchTo 激活指定草稿；ID 不存在时无操作
func (m *Manager) SwitchTo(id string) bool {
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}
	for i := range m.drafts {
		m.drafts[i].IsActive = i == idx
	}
	m.persist()
	return true
}

// MutateActive 对激活草稿应用纯变换并替换回集合；激活草稿提交中返回 ErrSubmitInProgress
func (m *Manager) MutateActive(fn func(Draft) Draft) (Draft, error) {
	return m.MutateDraft(m.ActiveID(), fn)
}

// MutateDraft 对指定草稿应用纯变换；用于回填异步结果，草稿不存在时返回 ErrDraftNotFound
func (m *Manager) MutateDraft(id string, fn func(Draft) Draft) (Draft, error) {
	if err := m.writable(id); err != nil {
		return Draft{}, err
	}
	idx := m.indexOf(id)
	m.replaceAt(idx, fn)
	m.persist()
	return m.drafts[idx].clone(), nil
}

// RemoveSubmitted 提交成功后销毁草稿；若为最后一个草稿则补一个空草稿
func (m *Manager) RemoveSubmitted(id string) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return ErrDraftNotFound
	}
	delete(m.submitting, m.drafts[idx].ID)
	m.removeAt(idx)
	if len(m.drafts) == 0 {
		fresh := m.newDraft(1)
		fresh.IsActive = true
		m.drafts = []Draft{fresh}
	}
	m.log.Debugw("composer_draft_submitted", "draft_id", id)
	m.persist()
	return nil
}

// Flush 立即持久化当前集合
func (m *Manager) Flush(ctx context.Context) error {
	if m.persistence == nil {
		return nil
	}
	return m.persistence.Save(ctx, m.Drafts())
}

func (m *Manager) writable(id string) error {
	if m.indexOf(id) < 0 {
		return ErrDraftNotFound
	}
	if m.Submitting(id) {
		return ErrSubmitInProgress
	}
	return nil
}

func (m *Manager) replaceAt(idx int, fn func(Draft) Draft) {
	current := m.drafts[idx]
	next := current.clone()
	if fn != nil {
		next = fn(next)
	}
	next.ID = current.ID
	next.IsActive = current.IsActive
	if next.LineItems == nil {
		next.LineItems = LineItems{}
	}
	m.drafts[idx] = next
}

func (m *Manager) removeAt(idx int) {
	removed := m.drafts[idx]
	m.drafts = append(m.drafts[:idx:idx], m.drafts[idx+1:]...)
	if cancelled := m.tasks.CancelDraft(removed.ID); cancelled > 0 {
		m.log.Debugw("composer_draft_tasks_cancelled", "draft_id", removed.ID, "count", cancelled)
	}
	if removed.IsActive && len(m.drafts) > 0 {
		m.drafts[0].IsActive = true
	}
}

func (m *Manager) persist() {
	if m.persistence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.saveTimeout)
	defer cancel()
	if err := m.persistence.Save(ctx, m.Drafts()); err != nil {
		m.log.Warnw("composer_persist_failed", "drafts", len(m.drafts), "error", err)
	}
}

func (m *Manager) newDraft(seq int) Draft {
	return Draft{
		ID:          m.newID(),
		Name:        fmt.Sprintf(draftNameFormat, seq),
		LineItems:   LineItems{},
		ShippingFee: m.defaultShipping,
	}
}

func (m *Manager) indexOf(id string) int {
	target := strings.TrimSpace(id)
	if target == "" {
		return -1
	}
	for i, draft := range m.drafts {
		if draft.ID == target {
			return i
		}
	}
	return -1
}

func (m *Manager) activeIndex() int {
	for i, draft := range m.drafts {
		if draft.IsActive {
			return i
		}
	}
	return 0
}

// normalizeDrafts 修正恢复数据：补齐 ID/名称、保证恰有一个激活草稿
func (m *Manager) normalizeDrafts(drafts []Draft) []Draft {
	result := make([]Draft, 0, len(drafts))
	seen := make(map[string]struct{}, len(drafts))
	activeSeen := false
	for _, draft := range drafts {
		draft = draft.clone()
		draft.ID = strings.TrimSpace(draft.ID)
		if _, dup := seen[draft.ID]; draft.ID == "" || dup {
			draft.ID = m.newID()
		}
		seen[draft.ID] = struct{}{}
		if strings.TrimSpace(draft.Name) == "" {
			draft.Name = fmt.Sprintf(draftNameFormat, len(result)+1)
		}
		draft.LineItems = draft.LineItems.normalize()
		if draft.ShippingFee.Decimal.IsNegative() {
			draft.ShippingFee = models.Money{}
		}
		draft.ShippingFee = draft.ShippingFee.Normalized()
		if draft.IsActive && activeSeen {
			draft.IsActive = false
		}
		if draft.IsActive {
			activeSeen = true
		}
		result = append(result, draft)
	}
	if !activeSeen {
		result[0].IsActive = true
	}
	return result
}
