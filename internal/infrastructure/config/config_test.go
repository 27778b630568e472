package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 9090
  mode: test
jwt:
  secret: test-secret
inventory:
  duplicate_window: 120s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Inventory.DuplicateWindow)
	assert.Equal(t, 60*time.Second, cfg.Inventory.MinReturnWait)
	assert.Equal(t, 120*time.Second, cfg.Inventory.PostReturnBlock, "未配置时冷却期等于防重窗口")
	assert.Equal(t, 24*time.Hour, cfg.Inventory.LowStockDebounce)
	assert.Equal(t, "inventory.low_stock", cfg.MQ.LowStockRoutingKey)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("STOCKROOM_INVENTORY_MIN_RETURN_WAIT", "90s")
	t.Setenv("STOCKROOM_INVENTORY_POST_RETURN_BLOCK", "10m")
	t.Setenv("STOCKROOM_DATABASE_PASSWORD", "s3cret")

	cfg, err := LoadFrom(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Inventory.MinReturnWait)
	assert.Equal(t, 10*time.Minute, cfg.Inventory.PostReturnBlock)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoadFrom_Validation(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "server:\n  port: 8080\n"))
	assert.Error(t, err, "缺少JWT密钥应校验失败")

	_, err = LoadFrom(writeConfig(t, minimalYAML+"mq:\n  enabled: true\n"))
	assert.Error(t, err, "启用MQ但未配置URL应校验失败")

	_, err = LoadFrom(writeConfig(t, minimalYAML+"cors:\n  allow_credentials: true\n"))
	assert.Error(t, err, "携带凭证时不允许通配域名")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "127.0.0.1", Port: 3306,
		DBName: "stockroom", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/stockroom?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
