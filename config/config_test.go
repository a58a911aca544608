package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "http://localhost:8090", cfg.Chain.NodeURL)
	assert.Equal(t, int64(100_000_000), cfg.Chain.FeeLimit)
	assert.Equal(t, 10*time.Second, cfg.Chain.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Chain.ConfirmInterval)
	assert.Equal(t, 6, cfg.Chain.ConfirmMaxAttempts)

	assert.Equal(t, "employees.json", cfg.Vault.FilePath)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  mode: "release"
chain:
  node_url: "http://node.example.com:8090"
  pool_owner_address: "TPoolOwner"
  pool_private_key: "poolkey"
  pool_contract: "TPoolContract"
  token_contract: "TTokenContract"
  fee_limit: 50000000
  confirm_interval: "2s"
  confirm_max_attempts: 8
vault:
  file_path: "/var/lib/gateway/employees.json"
  passphrase: "vault-pass"
api:
  key: "super-secret"
redis:
  enabled: true
  host: "redis.example.com"
  port: 6380
  password: "redispwd"
  db: 2
log:
  level: "debug"
  pretty: true
`)
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)

	assert.Equal(t, "http://node.example.com:8090", cfg.Chain.NodeURL)
	assert.Equal(t, "TPoolOwner", cfg.Chain.PoolOwnerAddress)
	assert.Equal(t, "poolkey", cfg.Chain.PoolPrivateKey)
	assert.Equal(t, "TPoolContract", cfg.Chain.PoolContract)
	assert.Equal(t, "TTokenContract", cfg.Chain.TokenContract)
	assert.Equal(t, int64(50_000_000), cfg.Chain.FeeLimit)
	assert.Equal(t, 2*time.Second, cfg.Chain.ConfirmInterval)
	assert.Equal(t, 8, cfg.Chain.ConfirmMaxAttempts)

	assert.Equal(t, "/var/lib/gateway/employees.json", cfg.Vault.FilePath)
	assert.Equal(t, "vault-pass", cfg.Vault.Passphrase)
	assert.Equal(t, "super-secret", cfg.API.Key)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.example.com", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "redispwd", cfg.Redis.Password)
	assert.Equal(t, 2, cfg.Redis.DB)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PRG_SERVER_PORT", "3000")
	t.Setenv("PRG_CHAIN_NODE_URL", "http://env-node:8090")
	t.Setenv("PRG_API_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "http://env-node:8090", cfg.Chain.NodeURL)
	assert.Equal(t, "env-key", cfg.API.Key)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Chain: ChainConfig{
				PoolOwnerAddress: "TPoolOwner",
				PoolPrivateKey:   "poolkey",
				PoolContract:     "TPoolContract",
				TokenContract:    "TTokenContract",
			},
			Vault: VaultConfig{Passphrase: "pass"},
			API:   APIConfig{Key: "key"},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.API.Key = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Vault.Passphrase = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Chain.PoolPrivateKey = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Chain.TokenContract = ""
	assert.Error(t, cfg.Validate())
}

func TestRedisConfig_Addr(t *testing.T) {
	redisCfg := RedisConfig{
		Host: "redis.local",
		Port: 6380,
	}

	assert.Equal(t, "redis.local:6380", redisCfg.Addr())
}
