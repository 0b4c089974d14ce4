package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const captchaOpTimeout = time.Second

// CaptchaStore 基于 Redis 的验证码答案存储，满足 base64Captcha.Store，多实例部署时共享
type CaptchaStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCaptchaStore 创建验证码存储，键为 <prefix>:captcha:<id>
func NewCaptchaStore(client *redis.Client, prefix string, ttl time.Duration) *CaptchaStore {
	return &CaptchaStore{client: client, prefix: strings.TrimSpace(prefix) + ":captcha:", ttl: ttl}
}

// Set 写入答案
func (s *CaptchaStore) Set(id string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), captchaOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+id, value, s.ttl).Err()
}

// Get 读取答案，clear 为 true 时读后删除
func (s *CaptchaStore) Get(id string, clear bool) string {
	ctx, cancel := context.WithTimeout(context.Background(), captchaOpTimeout)
	defer cancel()
	var cmd *redis.StringCmd
	if clear {
		cmd = s.client.GetDel(ctx, s.prefix+id)
	} else {
		cmd = s.client.Get(ctx, s.prefix+id)
	}
	value, err := cmd.Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return ""
	}
	return value
}

// Verify 忽略大小写比对答案
func (s *CaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	return stored != "" && strings.EqualFold(stored, strings.TrimSpace(answer))
}
