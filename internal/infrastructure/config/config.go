package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，YAML文件 + STOCKROOM_* 环境变量覆盖，
// 启动时先用godotenv加载工作目录下的.env（不存在则忽略）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	MQ        MQConfig        `mapstructure:"mq"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN 生成MySQL连接字符串（loc需要URL编码：Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// InventoryConfig 库存处理参数
type InventoryConfig struct {
	DuplicateWindow         time.Duration `mapstructure:"duplicate_window"`          // 扫码防重窗口
	MinReturnWait           time.Duration `mapstructure:"min_return_wait"`           // 借出后最短归还等待
	PostReturnBlock         time.Duration `mapstructure:"post_return_block"`         // 归还后冷却期，0表示与防重窗口相同
	LowStockDebounce        time.Duration `mapstructure:"low_stock_debounce"`        // 低库存告警去抖窗口
	DefaultReorderThreshold int           `mapstructure:"default_reorder_threshold"` // 新建商品的默认补货阈值
	LowStockLockTTL         time.Duration `mapstructure:"low_stock_lock_ttl"`        // 低库存检查的分布式锁TTL
	GuardFailureThreshold   uint32        `mapstructure:"guard_failure_threshold"`   // 防重缓存连续失败多少次后熔断
	GuardOpenTimeout        time.Duration `mapstructure:"guard_open_timeout"`        // 熔断持续时间
}

// MQConfig RabbitMQ配置（低库存事件）
type MQConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	URL                string `mapstructure:"url"`
	Exchange           string `mapstructure:"exchange"`
	ExchangeType       string `mapstructure:"exchange_type"`
	LowStockRoutingKey string `mapstructure:"low_stock_routing_key"`
	NotifierQueue      string `mapstructure:"notifier_queue"`
}

// TracingConfig OpenTelemetry配置
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// CORSConfig 跨域配置（扫码前端与管理后台）
type CORSConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	AllowOrigins     []string      `mapstructure:"allow_origins"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// Load 加载配置
// 支持：
// 1. 默认加载 ./config/config.yaml 或 ./config.yaml
// 2. STOCKROOM_ENV=prod 时加载 config.prod.yaml
// 3. 环境变量覆盖（如 STOCKROOM_DATABASE_PASSWORD、STOCKROOM_INVENTORY_DUPLICATE_WINDOW=120s）
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取.env失败: %w", err)
	}
	return LoadFrom("./config", ".")
}

// LoadFrom 从指定目录加载配置
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	if env := os.Getenv("STOCKROOM_ENV"); env != "" {
		v.SetConfigName("config." + env)
	}
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix("STOCKROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if cfg.Inventory.PostReturnBlock <= 0 {
		cfg.Inventory.PostReturnBlock = cfg.Inventory.DuplicateWindow
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.read_timeout", time.Second)
	v.SetDefault("redis.write_timeout", time.Second)

	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_token_expire", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("inventory.duplicate_window", 300*time.Second)
	v.SetDefault("inventory.min_return_wait", 60*time.Second)
	v.SetDefault("inventory.post_return_block", time.Duration(0))
	v.SetDefault("inventory.low_stock_debounce", 24*time.Hour)
	v.SetDefault("inventory.default_reorder_threshold", 0)
	v.SetDefault("inventory.low_stock_lock_ttl", 5*time.Second)
	v.SetDefault("inventory.guard_failure_threshold", 5)
	v.SetDefault("inventory.guard_open_timeout", 30*time.Second)

	v.SetDefault("mq.enabled", false)
	v.SetDefault("mq.exchange", "stockroom.events")
	v.SetDefault("mq.exchange_type", "topic")
	v.SetDefault("mq.low_stock_routing_key", "inventory.low_stock")
	v.SetDefault("mq.notifier_queue", "stockroom.notifier.low_stock")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "stockroom-api")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 12*time.Hour)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT密钥不能为空")
	}
	if cfg.JWT.Secret == "change-me-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	inv := cfg.Inventory
	if inv.DuplicateWindow <= 0 {
		return fmt.Errorf("inventory.duplicate_window必须大于0")
	}
	if inv.MinReturnWait < 0 || inv.LowStockDebounce < 0 {
		return fmt.Errorf("inventory等待时间不能为负数")
	}
	if inv.DefaultReorderThreshold < 0 {
		return fmt.Errorf("inventory.default_reorder_threshold不能为负数")
	}

	if cfg.CORS.AllowCredentials {
		for _, o := range cfg.CORS.AllowOrigins {
			if o == "*" {
				return fmt.Errorf("cors.allow_credentials=true时allow_origins不能为*")
			}
		}
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用消息队列时mq.url不能为空")
	}

	return nil
}
