package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// 模块配置键
const (
	SettingActivated             = "comment_activated"
	SettingModerate              = "comment_moderate"
	SettingRefAllowed            = "comment_ref_allowed"
	SettingOnlyCustomer          = "comment_only_customer"
	SettingOnlyVerified          = "comment_only_verified"
	SettingRequestCustomerTTL    = "comment_request_customer_ttl"
	SettingNotifyAdminNewComment = "comment_notify_admin_new_comment"

	settingsCacheKey = "comment:settings"
)

var settingNames = []string{
	SettingActivated,
	SettingModerate,
	SettingRefAllowed,
	SettingOnlyCustomer,
	SettingOnlyVerified,
	SettingRequestCustomerTTL,
	SettingNotifyAdminNewComment,
}

// ModuleConfig 后台可调整的模块级策略，每个请求加载一次快照
type ModuleConfig struct {
	Activated             bool     `json:"activated"`
	Moderate              bool     `json:"moderate"`
	RefAllowed            []string `json:"ref_allowed"`
	OnlyCustomer          bool     `json:"only_customer"`
	OnlyVerified          bool     `json:"only_verified"`
	RequestCustomerTTL    int      `json:"request_customer_ttl"` // 天，0 表示关闭提醒
	NotifyAdminNewComment bool     `json:"notify_admin_new_comment"`
}

// DefaultModuleConfig 未配置时的默认值
func DefaultModuleConfig() ModuleConfig {
	return ModuleConfig{
		Activated:             true,
		Moderate:              true,
		RefAllowed:            []string{"product", "content"},
		OnlyCustomer:          false,
		OnlyVerified:          false,
		RequestCustomerTTL:    15,
		NotifyAdminNewComment: true,
	}
}

// IsRefAllowed 判断 ref 类型是否在白名单中
func (c ModuleConfig) IsRefAllowed(ref string) bool {
	for _, r := range c.RefAllowed {
		if r == ref {
			return true
		}
	}
	return false
}

// SettingStore 模块配置持久化
type SettingStore interface {
	GetMany(ctx context.Context, names []string) (map[string]string, error)
	WriteMany(ctx context.Context, values map[string]string) error
}

// Cache 简单的字符串缓存，未命中时返回空字符串和 nil
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SettingsLoader 按请求加载模块配置
type SettingsLoader interface {
	Load(ctx context.Context) (ModuleConfig, error)
}

type SettingService struct {
	repo     SettingStore
	cache    Cache
	cacheTTL time.Duration
}

// NewSettingService cache 可以为 nil，此时每次都读数据库
func NewSettingService(repo SettingStore, cache Cache, cacheTTL time.Duration) *SettingService {
	return &SettingService{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// Load 读取模块配置（Redis 优先）
func (s *SettingService) Load(ctx context.Context) (ModuleConfig, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, settingsCacheKey); err != nil {
			logger.Warn("Load comment settings from cache failed", zap.Error(err))
		} else if raw != "" {
			var cfg ModuleConfig
			if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	values, err := s.repo.GetMany(ctx, settingNames)
	if err != nil {
		return ModuleConfig{}, err
	}
	cfg := parseModuleConfig(values)

	if s.cache != nil {
		if payload, err := json.Marshal(cfg); err == nil {
			if err := s.cache.Set(ctx, settingsCacheKey, string(payload), s.cacheTTL); err != nil {
				logger.Warn("Cache comment settings failed", zap.Error(err))
			}
		}
	}
	return cfg, nil
}

// Save 保存模块配置并清除缓存
func (s *SettingService) Save(ctx context.Context, cfg ModuleConfig) error {
	if cfg.RequestCustomerTTL < 0 {
		return invalidField("request_customer_ttl", "不能为负数")
	}
	if err := s.repo.WriteMany(ctx, formatModuleConfig(cfg)); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
			logger.Warn("Invalidate comment settings cache failed", zap.Error(err))
		}
	}
	logger.Info("Comment settings saved",
		zap.Bool("activated", cfg.Activated),
		zap.Bool("moderate", cfg.Moderate),
		zap.Strings("ref_allowed", cfg.RefAllowed),
	)
	return nil
}

func parseModuleConfig(values map[string]string) ModuleConfig {
	cfg := DefaultModuleConfig()
	if v, ok := values[SettingActivated]; ok {
		cfg.Activated = v == "1"
	}
	if v, ok := values[SettingModerate]; ok {
		cfg.Moderate = v == "1"
	}
	if v, ok := values[SettingRefAllowed]; ok {
		cfg.RefAllowed = splitRefs(v)
	}
	if v, ok := values[SettingOnlyCustomer]; ok {
		cfg.OnlyCustomer = v == "1"
	}
	if v, ok := values[SettingOnlyVerified]; ok {
		cfg.OnlyVerified = v == "1"
	}
	if v, ok := values[SettingRequestCustomerTTL]; ok {
		if ttl, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && ttl >= 0 {
			cfg.RequestCustomerTTL = ttl
		}
	}
	if v, ok := values[SettingNotifyAdminNewComment]; ok {
		cfg.NotifyAdminNewComment = v == "1"
	}
	return cfg
}

func formatModuleConfig(cfg ModuleConfig) map[string]string {
	return map[string]string{
		SettingActivated:             boolFlag(cfg.Activated),
		SettingModerate:              boolFlag(cfg.Moderate),
		SettingRefAllowed:            strings.Join(cfg.RefAllowed, ","),
		SettingOnlyCustomer:          boolFlag(cfg.OnlyCustomer),
		SettingOnlyVerified:          boolFlag(cfg.OnlyVerified),
		SettingRequestCustomerTTL:    strconv.Itoa(cfg.RequestCustomerTTL),
		SettingNotifyAdminNewComment: boolFlag(cfg.NotifyAdminNewComment),
	}
}

func splitRefs(raw string) []string {
	refs := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if ref := strings.TrimSpace(part); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
