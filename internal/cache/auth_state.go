package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/dujiao-next/order-desk/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// AdminAuthState 鉴权中间件使用的账号快照，避免每个请求查库
type AdminAuthState struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	IsSuper      bool   `json:"is_super"`
	IsDisabled   bool   `json:"is_disabled"`
	TokenVersion uint64 `json:"token_version"`
	// TokenInvalidBefore Unix 秒，0 表示未设置
	TokenInvalidBefore int64 `json:"token_invalid_before"`
}

// Accepts 判断以 version 签发于 issuedAt 的 token 是否仍然有效
func (s *AdminAuthState) Accepts(version uint64, issuedAt time.Time) bool {
	if s == nil || s.IsDisabled || s.TokenVersion != version {
		return false
	}
	return s.TokenInvalidBefore == 0 || issuedAt.Unix() >= s.TokenInvalidBefore
}

func adminAuthStateKey(adminID uint) string {
	return "auth:admin:" + strconv.FormatUint(uint64(adminID), 10)
}

// BuildAdminAuthState 由账号构建快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	state := &AdminAuthState{
		AdminID:      admin.ID,
		Username:     admin.Username,
		IsSuper:      admin.IsSuper,
		IsDisabled:   admin.IsDisabled,
		TokenVersion: admin.TokenVersion,
	}
	if admin.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = admin.TokenInvalidBefore.Unix()
	}
	return state
}

// GetAdminAuthState 读取快照；未命中返回 hit=false
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	if adminID == 0 {
		return nil, false, nil
	}
	state := &AdminAuthState{}
	hit, err := GetJSON(ctx, adminAuthStateKey(adminID), state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state, true, nil
}

// SetAdminAuthState 写入快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.AdminID), state, authStateCacheTTL)
}

// DelAdminAuthState 删除快照，下个请求回源数据库
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	if adminID == 0 {
		return nil
	}
	return Del(ctx, adminAuthStateKey(adminID))
}
