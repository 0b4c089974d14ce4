package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/order-desk/internal/cache"
	"github.com/dujiao-next/order-desk/internal/config"

	"github.com/redis/go-redis/v9"
)

func TestCaptchaServiceDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{}, nil)
	if svc.Enabled() {
		t.Fatalf("captcha should default to disabled")
	}
	if err := svc.Verify("", ""); err != nil {
		t.Fatalf("disabled captcha should not block login: %v", err)
	}
	if _, err := svc.Generate(); !errors.Is(err, ErrCaptchaDisabled) {
		t.Fatalf("expected ErrCaptchaDisabled, got %v", err)
	}
}

func TestCaptchaServiceVerifyWithRedisStore(t *testing.T) {
	mr := setupServiceRedis(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := cache.NewCaptchaStore(client, "test", time.Minute)
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: true, Length: 5}, store)

	challenge, err := svc.Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/") {
		t.Fatalf("unexpected challenge %+v", challenge.CaptchaID)
	}
	answer, err := mr.Get("test:captcha:" + challenge.CaptchaID)
	if err != nil || len(answer) != 5 {
		t.Fatalf("answer should be stored in redis, got %q err=%v", answer, err)
	}

	if err := svc.Verify(challenge.CaptchaID, ""); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}
	if err := svc.Verify(challenge.CaptchaID, strings.ToUpper(answer)); err != nil {
		t.Fatalf("case-insensitive answer should pass: %v", err)
	}
	if err := svc.Verify(challenge.CaptchaID, answer); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("challenge must be single use, got %v", err)
	}
}
