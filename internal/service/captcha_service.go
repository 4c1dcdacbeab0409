package service

import (
	"context"
	"errors"
	"time"

	"comment-go/internal/config"
	"comment-go/pkg/logger"

	"github.com/mojocn/base64Captcha"
	"go.uber.org/zap"
)

const captchaCachePrefix = "captcha:comment:"

// captchaStore 把验证码答案放到缓存里，实现 base64Captcha.Store
type captchaStore struct {
	cache  Cache
	expire time.Duration
}

func (s *captchaStore) Set(id string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.cache.Set(ctx, captchaCachePrefix+id, value, s.expire)
}

// takeCache 支持原子读取并删除的缓存（Redis GETDEL）
type takeCache interface {
	Take(ctx context.Context, key string) (string, error)
}

func (s *captchaStore) Get(id string, clear bool) string {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := captchaCachePrefix + id
	if tc, ok := s.cache.(takeCache); ok && clear {
		value, err := tc.Take(ctx, key)
		if err != nil {
			logger.Warn("Take captcha answer failed", zap.Error(err))
			return ""
		}
		return value
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Read captcha answer failed", zap.Error(err))
		return ""
	}
	if clear {
		_ = s.cache.Delete(ctx, key)
	}
	return value
}

func (s *captchaStore) Verify(id, answer string, clear bool) bool {
	if id == "" || answer == "" {
		return false
	}
	return s.Get(id, clear) == answer
}

type CaptchaService struct {
	enabled bool
	captcha *base64Captcha.Captcha
}

func NewCaptchaService(cfg *config.CaptchaConfig, cache Cache) *CaptchaService {
	length := cfg.Length
	if length <= 0 {
		length = 5
	}
	driver := base64Captcha.NewDriverDigit(80, 240, length, 0.7, 80)
	store := &captchaStore{cache: cache, expire: cfg.ExpireDuration()}
	return &CaptchaService{
		enabled: cfg.Enabled,
		captcha: base64Captcha.NewCaptcha(driver, store),
	}
}

// Enabled 是否启用人机验证
func (s *CaptchaService) Enabled() bool {
	return s.enabled
}

// Generate 生成验证码，返回 ID 和 base64 图片
func (s *CaptchaService) Generate() (string, string, error) {
	id, b64s, _, err := s.captcha.Generate()
	if err != nil {
		return "", "", errors.New("生成验证码失败")
	}
	return id, b64s, nil
}

// Verify 校验答案，无论成功与否都作废
func (s *CaptchaService) Verify(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return s.captcha.Verify(id, answer, true)
}

// Handle 作为 comment.create 的前置钩子，只检查前台提交
func (s *CaptchaService) Handle(ctx context.Context, ev *Event) error {
	if !s.enabled || ev.Channel != ChannelFront || ev.Submission == nil {
		return nil
	}
	if !s.Verify(ev.Submission.CaptchaID, ev.Submission.CaptchaAnswer) {
		return invalidField("captcha", ErrCaptchaFailed.Error())
	}
	return nil
}
