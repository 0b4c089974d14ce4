package composer

import (
	"context"
	"sync"
)

// Tasks 按草稿 ID 登记的异步任务
// 草稿关闭或提交后，其名下任务的 context 被取消，迟到结果应被丢弃
type Tasks struct {
	mu      sync.Mutex
	seq     uint64
	byDraft map[string]map[uint64]context.CancelFunc
}

// NewTasks 创建任务登记表
func NewTasks() *Tasks {
	return &Tasks{byDraft: make(map[string]map[uint64]context.CancelFunc)}
}

// Begin 为草稿登记任务，返回任务 context 与结束回调
func (t *Tasks) Begin(parent context.Context, draftID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	t.mu.Lock()
	t.seq++
	id := t.seq
	tasks, ok := t.byDraft[draftID]
	if !ok {
		tasks = make(map[uint64]context.CancelFunc)
		t.byDraft[draftID] = tasks
	}
	tasks[id] = cancel
	t.mu.Unlock()

	done := func() {
		t.mu.Lock()
		if tasks, ok := t.byDraft[draftID]; ok {
			delete(tasks, id)
			if len(tasks) == 0 {
				delete(t.byDraft, draftID)
			}
		}
		t.mu.Unlock()
		cancel()
	}
	return ctx, done
}

// CancelDraft 取消草稿名下全部任务
func (t *Tasks) CancelDraft(draftID string) int {
	t.mu.Lock()
	tasks := t.byDraft[draftID]
	delete(t.byDraft, draftID)
	t.mu.Unlock()
	for _, cancel := range tasks {
		cancel()
	}
	return len(tasks)
}
