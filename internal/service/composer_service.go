package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dujiao-next/order-desk/internal/composer"
	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/shopspring/decimal"
)

// DraftView 草稿及其实时汇总
type DraftView struct {
	composer.Draft
	ItemCount int                   `json:"item_count"`
	Summary   composer.OrderSummary `json:"summary"`
}

// WorkspaceView 管理员的草稿工作区
type WorkspaceView struct {
	ActiveID string      `json:"active_id"`
	Drafts   []DraftView `json:"drafts"`
}

// SubmitResult 提交结果
type SubmitResult struct {
	OrderID   uint                  `json:"order_id"`
	OrderNo   string                `json:"order_no"`
	Summary   composer.OrderSummary `json:"summary"`
	Workspace WorkspaceView         `json:"workspace"`
}

// ComposerService 录单草稿服务
// 每个管理员一个工作区，工作区内的变更串行执行
type ComposerService struct {
	cfg       config.ComposerConfig
	store     composer.SlotStore
	catalog   CatalogLookup
	discounts DiscountResolver
	submitter OrderSubmitter

	mu         sync.Mutex
	workspaces map[uint]*workspace
}

type workspace struct {
	mu      sync.Mutex
	manager *composer.Manager
}

// NewComposerService 创建录单草稿服务
func NewComposerService(cfg config.ComposerConfig, store composer.SlotStore, catalog CatalogLookup, discounts DiscountResolver, submitter OrderSubmitter) *ComposerService {
	return &ComposerService{
		cfg:        cfg,
		store:      store,
		catalog:    catalog,
		discounts:  discounts,
		submitter:  submitter,
		workspaces: make(map[uint]*workspace),
	}
}

func (s *ComposerService) workspace(ctx context.Context, adminID uint) *workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces[adminID]; ok {
		return ws
	}
	persistence := composer.NewSlotPersistence(s.store, s.cfg.SlotKey(adminID))
	manager := composer.NewManager(ctx, persistence,
		composer.WithLogger(logger.ForAdmin(adminID, "slot", persistence.Slot())),
		composer.WithSaveTimeout(s.cfg.SaveTimeout()),
		composer.WithDefaultShippingFee(models.NewMoneyFromDecimal(s.cfg.ShippingFee())),
	)
	ws := &workspace{manager: manager}
	s.workspaces[adminID] = ws
	return ws
}

// Workspace 获取工作区
func (s *ComposerService) Workspace(ctx context.Context, adminID uint) WorkspaceView {
	ws := s.workspace(ctx, adminID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return buildWorkspaceView(ws.manager)
}

// CreateDraft 新建草稿并激活
func (s *ComposerService) CreateDraft(ctx context.Context, adminID uint) WorkspaceView {
	ws := s.workspace(ctx, adminID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.manager.CreateDraft()
	return buildWorkspaceView(ws.manager)
}

// CloseDraft 关闭草稿；仅剩一个草稿时保持不变
func (s *ComposerService) CloseDraft(ctx context.Context, adminID uint, draftID string) (WorkspaceView, error) {
	ws := s.workspace(ctx, adminID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if _, ok := ws.manager.Draft(draftID); !ok {
		return WorkspaceView{}, ErrDraftNotFound
	}
	if ws.manager.Submitting(draftID) {
		return WorkspaceView{}, ErrSubmitInProgress
	}
	ws.manager.CloseDraft(draftID)
	return buildWorkspaceView(ws.manager), nil
}

// SwitchDraft 切换激活草稿
func (s *ComposerService) SwitchDraft(ctx context.Context, adminID uint, draftID string) (WorkspaceView, error) {
	ws := s.workspace(ctx, adminID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if !ws.manager.SwitchTo(draftID) {
		return WorkspaceView{}, ErrDraftNotFound
	}
	return buildWorkspaceView(ws.manager), nil
}

// AddProduct 查询目录后将商品加入激活草稿
// 查询期间草稿被关闭或提交时丢弃结果并返回 ErrStaleResult
func (s *ComposerService) AddProduct(ctx context.Context, adminID uint, productID string) (DraftView, error) {
	return s.applyAsync(ctx, adminID, func(taskCtx context.Context, _ composer.Draft) (draftChange, error) {
		item, err := s.catalog.Lookup(taskCtx, productID)
		if err != nil {
			return nil, err
		}
		return func(d composer.Draft) (composer.Draft, error) {
			d.LineItems = d.LineItems.AddOrMergeProduct(item)
			return d, nil
		}, nil
	})
}

// ToggleAttribute 切换激活草稿中某商品的属性
func (s *ComposerService) ToggleAttribute(ctx context.Context, adminID uint, productID, attributeName string) (DraftView, error) {
	return s.applyAsync(ctx, adminID, func(taskCtx context.Context, target composer.Draft) (draftChange, error) {
		if _, ok := target.LineItems.Find(productID); !ok {
			return nil, ErrLineItemNotFound
		}
		item, err := s.catalog.Lookup(taskCtx, productID)
		if err != nil {
			return nil, err
		}
		return func(d composer.Draft) (composer.Draft, error) {
			return composer.ToggleAttribute(d, item, attributeName)
		}, nil
	})
}

// ApplyDiscount 解析优惠码并写入激活草稿
func (s *ComposerService) ApplyDiscount(ctx context.Context, adminID uint, code string) (DraftView, error) {
	return s.applyAsync(ctx, adminID, func(taskCtx context.Context, _ composer.Draft) (draftChange, error) {
		discount, err := s.discounts.Resolve(taskCtx, code)
		if err != nil {
			return nil, err
		}
		return func(d composer.Draft) (composer.Draft, error) {
			d.Discount = &discount
			return d, nil
		}, nil
	})
}

// SetQuantity 设置数量；n <= 0 删除该行
func (s *ComposerService) SetQuantity(ctx context.Context, adminID uint, productID string, quantity int) (DraftView, error) {
	return s.mutateActive(ctx, adminID, func(d composer.Draft) (composer.Draft, error) {
		if _, ok := d.LineItems.Find(productID); !ok {
			return d, ErrLineItemNotFound
		}
		d.LineItems = d.LineItems.SetQuantity(productID, quantity)
		return d, nil
	})
}

// RemoveItem 删除订单行，不存在时无操作
func (s *ComposerService) RemoveItem(ctx context.Context, adminID uint, productID string) (DraftView, error) {
	return s.mutateActive(ctx, adminID, func(d composer.Draft) (composer.Draft, error) {
		d.LineItems = d.LineItems.RemoveItem(productID)
		return d, nil
	})
}

// UpdateCustomer 更新客户信息；nil 表示散客
func (s *ComposerService) UpdateCustomer(ctx context.Context, adminID uint, customer *composer.CustomerInfo) (DraftView, error) {
	return s.mutateActive(ctx, adminID, func(d composer.Draft) (composer.Draft, error) {
		if customer == nil {
			d.Customer = nil
			return d, nil
		}
		normalized := customer.Normalize()
		d.Customer = &normalized
		return d, nil
	})
}

// ClearDiscount 移除优惠码
func (s *ComposerService) ClearDiscount(ctx context.Context, adminID uint) (DraftView, error) {
	return s.mutateActive(ctx, adminID, func(d composer.Draft) (composer.Draft, error) {
		d.Discount = nil
		return d, nil
	})
}

// SetShippingFee 设置运费
func (s *ComposerService) SetShippingFee(ctx context.Context, adminID uint, fee decimal.Decimal) (DraftView, error) {
	if fee.IsNegative() {
		return DraftView{}, ErrInvalidShippingFee
	}
	return s.mutateActive(ctx, adminID, func(d composer.Draft) (composer.Draft, error) {
		d.ShippingFee = models.NewMoneyFromDecimal(fee)
		return d, nil
	})
}

// Submit 提交草稿；draftID 为空时提交激活草稿
// 校验失败不修改草稿；下单失败保留草稿以便重试
// 提交期间草稿被冻结，重复提交或修改返回 ErrSubmitInProgress
func (s *ComposerService) Submit(ctx context.Context, adminID uint, draftID string) (*SubmitResult, error) {
	ws := s.workspace(ctx, adminID)

	ws.mu.Lock()
	targetID := strings.TrimSpace(draftID)
	if targetID == "" {
		targetID = ws.manager.ActiveID()
	}
	draft, ok := ws.manager.Draft(targetID)
	if !ok {
		ws.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	if ws.manager.Submitting(targetID) {
		ws.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	req, err := composer.BuildSubmitRequest(draft)
	if err != nil {
		ws.mu.Unlock()
		return nil, err
	}
	taskCtx, release, err := ws.manager.BeginSubmit(ctx, targetID)
	ws.mu.Unlock()
	if err != nil {
		return nil, err
	}

	order, submitErr := s.submitter.Submit(taskCtx, adminID, req)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	defer release()
	if submitErr != nil {
		logger.Warnw("composer_submit_failed", "admin_id", adminID, "draft_id", targetID, "error", submitErr)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, submitErr)
	}
	if err := ws.manager.RemoveSubmitted(targetID); err != nil {
		logger.Errorw("composer_submitted_draft_missing", "admin_id", adminID, "draft_id", targetID, "order_no", order.OrderNo, "error", err)
		return nil, fmt.Errorf("order %s created but draft %s is gone: %w", order.OrderNo, targetID, err)
	}
	logger.Infow("composer_draft_submitted", "admin_id", adminID, "draft_id", targetID, "order_no", order.OrderNo)
	return &SubmitResult{
		OrderID:   order.ID,
		OrderNo:   order.OrderNo,
		Summary:   req.Summary,
		Workspace: buildWorkspaceView(ws.manager),
	}, nil
}

// Flush 立即持久化全部已加载的工作区
func (s *ComposerService) Flush(ctx context.Context) error {
	s.mu.Lock()
	workspaces := make(map[uint]*workspace, len(s.workspaces))
	for id, ws := range s.workspaces {
		workspaces[id] = ws
	}
	s.mu.Unlock()

	var errs []error
	for adminID, ws := range workspaces {
		ws.mu.Lock()
		err := ws.manager.Flush(ctx)
		ws.mu.Unlock()
		if err != nil {
			logger.Warnw("composer_flush_failed", "admin_id", adminID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// draftChange 对目标草稿的纯变换，返回错误时不做任何修改
type draftChange func(composer.Draft) (composer.Draft, error)

func (s *ComposerService) mutateActive(ctx context.Context, adminID uint, change draftChange) (DraftView, error) {
	ws := s.workspace(ctx, adminID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	current := ws.manager.Active()
	if ws.manager.Submitting(current.ID) {
		return DraftView{}, ErrSubmitInProgress
	}
	next, err := change(current)
	if err != nil {
		return DraftView{}, err
	}
	updated, err := ws.manager.MutateActive(func(composer.Draft) composer.Draft {
		return next
	})
	if err != nil {
		return DraftView{}, err
	}
	return buildDraftView(updated), nil
}

// applyAsync 锁外执行外部查询，回填前确认目标草稿仍然存在
func (s *ComposerService) applyAsync(ctx context.Context, adminID uint, fetch func(context.Context, composer.Draft) (draftChange, error)) (DraftView, error) {
	ws := s.workspace(ctx, adminID)

	ws.mu.Lock()
	target := ws.manager.Active()
	taskCtx, done, err := ws.manager.BeginTask(ctx, target.ID)
	ws.mu.Unlock()
	if err != nil {
		return DraftView{}, err
	}
	defer done()

	change, err := fetch(taskCtx, target)
	if err != nil {
		return DraftView{}, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if taskCtx.Err() != nil {
		logger.Debugw("composer_async_result_dropped", "admin_id", adminID, "draft_id", target.ID)
		return DraftView{}, ErrStaleResult
	}
	view, err := applyChange(ws.manager, target.ID, change)
	if errors.Is(err, composer.ErrDraftNotFound) {
		return DraftView{}, ErrStaleResult
	}
	return view, err
}

func applyChange(manager *composer.Manager, draftID string, change draftChange) (DraftView, error) {
	current, ok := manager.Draft(draftID)
	if !ok {
		return DraftView{}, ErrDraftNotFound
	}
	next, err := change(current)
	if err != nil {
		return DraftView{}, err
	}
	updated, err := manager.MutateDraft(draftID, func(composer.Draft) composer.Draft {
		return next
	})
	if err != nil {
		return DraftView{}, err
	}
	return buildDraftView(updated), nil
}

func buildDraftView(draft composer.Draft) DraftView {
	return DraftView{
		Draft:     draft,
		ItemCount: draft.LineItems.Count(),
		Summary:   draft.Summary(),
	}
}

func buildWorkspaceView(manager *composer.Manager) WorkspaceView {
	drafts := manager.Drafts()
	views := make([]DraftView, 0, len(drafts))
	for _, draft := range drafts {
		views = append(views, buildDraftView(draft))
	}
	return WorkspaceView{
		ActiveID: manager.ActiveID(),
		Drafts:   views,
	}
}
