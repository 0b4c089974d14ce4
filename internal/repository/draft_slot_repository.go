package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftSlotRepository 草稿槽位数据访问（按槽位整体覆盖）
type DraftSlotRepository interface {
	SaveSlot(ctx context.Context, slot string, payload []byte) error
	LoadSlot(ctx context.Context, slot string) ([]byte, error)
	DeleteSlot(ctx context.Context, slot string) error
}

// GormDraftSlotRepository GORM 实现
type GormDraftSlotRepository struct {
	db *gorm.DB
}

// NewDraftSlotRepository 创建草稿槽位仓库
func NewDraftSlotRepository(db *gorm.DB) *GormDraftSlotRepository {
	return &GormDraftSlotRepository{db: db}
}

// SaveSlot 写入槽位，存在则覆盖
func (r *GormDraftSlotRepository) SaveSlot(ctx context.Context, slot string, payload []byte) error {
	key := strings.TrimSpace(slot)
	if key == "" {
		return errors.New("draft slot key is empty")
	}
	now := time.Now()
	row := models.DraftSlot{
		SlotKey:   key,
		Payload:   string(payload),
		Size:      len(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "size", "updated_at"}),
	}).Create(&row).Error
}

// LoadSlot 读取槽位，不存在时返回 (nil, nil)
func (r *GormDraftSlotRepository) LoadSlot(ctx context.Context, slot string) ([]byte, error) {
	var row models.DraftSlot
	if err := r.db.WithContext(ctx).Where("slot_key = ?", strings.TrimSpace(slot)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(row.Payload), nil
}

// DeleteSlot 删除槽位
func (r *GormDraftSlotRepository) DeleteSlot(ctx context.Context, slot string) error {
	return r.db.WithContext(ctx).Where("slot_key = ?", strings.TrimSpace(slot)).Delete(&models.DraftSlot{}).Error
}
