package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Comment       CommentConfig       `mapstructure:"comment"`
	Captcha       CaptchaConfig       `mapstructure:"captcha"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Reminder      ReminderConfig      `mapstructure:"reminder"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	ExportBucket string `mapstructure:"export_bucket"`
	ExportExpiry int    `mapstructure:"export_expiry"` // 分钟

	// ExportRetentionDays 导出文件保留天数，0 表示不自动清理
	ExportRetentionDays int `mapstructure:"export_retention_days"`
}

// ExportExpiryDuration 返回导出文件预签名链接有效期
func (m *MinIOConfig) ExportExpiryDuration() time.Duration {
	if m.ExportExpiry <= 0 {
		return time.Hour
	}
	return time.Duration(m.ExportExpiry) * time.Minute
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
}

// Topic 返回逻辑名对应的 topic，未配置时返回逻辑名本身
func (k *KafkaConfig) Topic(name string) string {
	if t, ok := k.Topics[name]; ok && t != "" {
		return t
	}
	return name
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// IndexName 返回索引名，未配置时使用逻辑名
func (e *ElasticsearchConfig) IndexName(name string) string {
	if idx, ok := e.Index[name]; ok && idx != "" {
		return idx
	}
	return name
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	// Issuer 非空时只接受该签发方的 Token
	Issuer string `mapstructure:"issuer"`
}

// ExpireDuration 返回过期时间
func (j *JWTConfig) ExpireDuration() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// CommentConfig 评论模块的部署级策略（与后台可修改的模块配置区分）
type CommentConfig struct {
	// RatingRequiredRefs 这些 ref 类型在支持评分时必须填写评分
	RatingRequiredRefs []string `mapstructure:"rating_required_refs"`
	// SettingsCacheTTL 模块配置在 Redis 中的缓存时间（秒）
	SettingsCacheTTL int `mapstructure:"settings_cache_ttl"`
	TitleMaxLength   int `mapstructure:"title_max_length"`
	ContentMaxLength int `mapstructure:"content_max_length"`
}

// SettingsCacheDuration 返回模块配置缓存时间
func (c *CommentConfig) SettingsCacheDuration() time.Duration {
	if c.SettingsCacheTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SettingsCacheTTL) * time.Second
}

// IsRatingRequired 判断某个 ref 类型是否强制评分
func (c *CommentConfig) IsRatingRequired(ref string) bool {
	for _, r := range c.RatingRequiredRefs {
		if strings.EqualFold(r, ref) {
			return true
		}
	}
	return false
}

// CaptchaConfig 图形验证码配置
type CaptchaConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Length  int  `mapstructure:"length"`
	Expire  int  `mapstructure:"expire"` // 秒
}

// ExpireDuration 返回验证码有效期
func (c *CaptchaConfig) ExpireDuration() time.Duration {
	if c.Expire <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Expire) * time.Second
}

// RateLimitConfig 评论提交频率限制
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// ReminderConfig 购买后评价提醒任务配置
type ReminderConfig struct {
	Schedule  string `mapstructure:"schedule"`
	BatchSize int    `mapstructure:"batch_size"`
}

// 全局配置实例
var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	// 环境变量覆盖，例如 DATABASE_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &cfg

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "comment-go")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("comment.rating_required_refs", []string{})
	v.SetDefault("comment.settings_cache_ttl", 300)
	v.SetDefault("comment.title_max_length", 255)
	v.SetDefault("comment.content_max_length", 5000)
	v.SetDefault("captcha.length", 5)
	v.SetDefault("captcha.expire", 300)
	v.SetDefault("rate_limit.requests_per_minute", 10)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("reminder.schedule", "@daily")
	v.SetDefault("reminder.batch_size", 200)
	v.SetDefault("minio.export_bucket", "comment-exports")
	v.SetDefault("minio.export_expiry", 60)
	v.SetDefault("minio.export_retention_days", 7)
}

// Set 替换全局配置（测试或嵌入场景使用）
func Set(cfg *Config) {
	globalConfig = cfg
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}

// GetApp 获取应用配置
func GetApp() *AppConfig {
	return &Get().App
}

// GetJWT 获取JWT配置
func GetJWT() *JWTConfig {
	return &Get().JWT
}

// GetComment 获取评论模块配置
func GetComment() *CommentConfig {
	return &Get().Comment
}
