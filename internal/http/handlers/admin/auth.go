package admin

import (
	"errors"
	"time"

	"github.com/dujiao-next/order-desk/internal/authz"
	"github.com/dujiao-next/order-desk/internal/http/response"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求；开启验证码时需携带 captcha_id/captcha_code
type LoginRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		if errors.Is(err, service.ErrCaptchaRequired) {
			respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.admin_login_invalid", nil)
		case errors.Is(err, service.ErrAdminDisabled):
			respondError(c, response.CodeForbidden, "error.admin_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.login_failed", err)
		}
		return
	}
	requestLog(c).Infow("admin_login_success", "admin_id", admin.ID, "username", admin.Username)
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetLoginCaptcha 获取登录验证码；未开启时只返回 enabled=false
func (h *Handler) GetLoginCaptcha(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// GetCurrentAdmin 当前登录管理员及其角色
func (h *Handler) GetCurrentAdmin(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	state, err := h.AuthService.ResolveAdminState(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	roles := []string{}
	permissions := []authz.Policy{}
	if h.AuthzService != nil && !state.IsSuper {
		if resolved, err := h.AuthzService.GetAdminRoles(adminID); err != nil {
			requestLog(c).Warnw("admin_roles_resolve_failed", "admin_id", adminID, "error", err)
		} else {
			roles = resolved
		}
		if resolved, err := h.AuthzService.GetAdminPermissions(adminID); err != nil {
			requestLog(c).Warnw("admin_permissions_resolve_failed", "admin_id", adminID, "error", err)
		} else {
			permissions = resolved
		}
	}
	response.Success(c, gin.H{
		"id":          state.AdminID,
		"username":    state.Username,
		"is_super":    state.IsSuper,
		"roles":       roles,
		"permissions": permissions,
	})
}

// AdminLogout 注销当前账号的全部 token
func (h *Handler) AdminLogout(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(c.Request.Context(), adminID); err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.logout_failed", err)
		return
	}
	requestLog(c).Infow("admin_logout", "admin_id", adminID)
	response.Success(c, nil)
}
