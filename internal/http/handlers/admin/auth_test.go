package admin

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/provider"
	"github.com/dujiao-next/order-desk/internal/repository"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/mojocn/base64Captcha"
	"gorm.io/gorm"
)

func setupAuthRouter(t *testing.T, captchaStore base64Captcha.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateModels(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "handler-secret", ExpireHours: 1}}
	repo := repository.NewAdminRepository(db)
	auth := service.NewAuthService(cfg, repo)
	hash, err := auth.HashPassword("Cashier#2026")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := repo.Create(&models.Admin{Username: "cashier", PasswordHash: hash}); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	h := New(&provider.Container{
		Config:         cfg,
		AdminRepo:      repo,
		AuthService:    auth,
		CaptchaService: service.NewCaptchaService(config.CaptchaConfig{Enabled: captchaStore != nil}, captchaStore),
	})
	r := gin.New()
	r.GET("/captcha", h.GetLoginCaptcha)
	r.POST("/login", h.AdminLogin)
	return r
}

func TestAdminLoginWithoutCaptcha(t *testing.T) {
	r := setupAuthRouter(t, nil)

	if resp := call(t, r, "GET", "/captcha", ""); resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"enabled":false`) {
		t.Fatalf("captcha should report disabled, got %+v", resp)
	}
	if resp := call(t, r, "POST", "/login", `{"username":"cashier","password":"nope"}`); resp.StatusCode != 401 {
		t.Fatalf("wrong password want 401 got %d", resp.StatusCode)
	}
	resp := call(t, r, "POST", "/login", `{"username":"cashier","password":"Cashier#2026"}`)
	if resp.StatusCode != 0 {
		t.Fatalf("login failed: %+v", resp)
	}
	var data LoginResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("expected token, got %s err=%v", resp.Data, err)
	}
}

func TestAdminLoginRequiresCaptchaWhenEnabled(t *testing.T) {
	store := base64Captcha.NewMemoryStore(16, time.Minute)
	r := setupAuthRouter(t, store)

	if resp := call(t, r, "POST", "/login", `{"username":"cashier","password":"Cashier#2026"}`); resp.StatusCode != 400 {
		t.Fatalf("missing captcha want 400 got %d", resp.StatusCode)
	}

	resp := call(t, r, "GET", "/captcha", "")
	var challenge struct {
		Enabled   bool   `json:"enabled"`
		CaptchaID string `json:"captcha_id"`
	}
	if err := json.Unmarshal(resp.Data, &challenge); err != nil || !challenge.Enabled || challenge.CaptchaID == "" {
		t.Fatalf("unexpected captcha payload %s err=%v", resp.Data, err)
	}
	answer := store.Get(challenge.CaptchaID, false)

	body := fmt.Sprintf(`{"username":"cashier","password":"Cashier#2026","captcha_id":%q,"captcha_code":%q}`, challenge.CaptchaID, answer)
	if resp := call(t, r, "POST", "/login", body); resp.StatusCode != 0 {
		t.Fatalf("login with captcha failed: %+v", resp)
	}
	if resp := call(t, r, "POST", "/login", body); resp.StatusCode != 400 {
		t.Fatalf("captcha reuse want 400 got %d", resp.StatusCode)
	}
}
