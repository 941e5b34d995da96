package dependencies

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/repository"
)

func exerciseStorage(t *testing.T, store repository.Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "token")
	require.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	require.NoError(t, store.Set(ctx, "token", "abc"))
	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, store.Delete(ctx, "token"))
	require.NoError(t, store.Delete(ctx, "token"))
}

func TestNewStorage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.StorageConfig.Driver = "memory"
		store, closer, err := NewStorage(&cfg, core.NewNopLogger())
		require.NoError(t, err)
		defer closer.Close()
		exerciseStorage(t, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Default()
		cfg.SQLiteConfig.Path = filepath.Join(t.TempDir(), "nested", "codefix.db")
		store, closer, err := NewStorage(&cfg, core.NewNopLogger())
		require.NoError(t, err)
		defer closer.Close()
		exerciseStorage(t, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)

		cfg := config.Default()
		cfg.StorageConfig.Driver = "redis"
		cfg.StorageConfig.KeyPrefix = "codefix:"
		cfg.RedisConfig.Address = mr.Host()
		cfg.RedisConfig.Port = port
		store, closer, err := NewStorage(&cfg, core.NewNopLogger())
		require.NoError(t, err)
		defer closer.Close()
		exerciseStorage(t, store)

		require.NoError(t, store.Set(context.Background(), "k", "v"))
		assert.True(t, mr.Exists("codefix:k"))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.StorageConfig.Driver = "etcd"
		_, _, err := NewStorage(&cfg, core.NewNopLogger())
		assert.Error(t, err)
	})
}

func TestPreviewDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(127.0.0.1:3306)/codefix",
		previewDSN("root:s3cr:et@tcp(127.0.0.1:3306)/codefix"))
	assert.Equal(t, "codefix.db", previewDSN("codefix.db"))
	assert.Equal(t, "user@tcp(db)/x", previewDSN("user@tcp(db)/x"))
}

func TestNewHTTPClient(t *testing.T) {
	gwCfg := &config.GatewayConfig{Timeout: 3 * time.Second}

	plain := NewHTTPClient(gwCfg, &config.TracerConfig{})
	assert.Equal(t, 3*time.Second, plain.Timeout)
	assert.Nil(t, plain.Transport)

	traced := NewHTTPClient(gwCfg, &config.TracerConfig{Enabled: true})
	_, ok := traced.Transport.(*otelhttp.Transport)
	assert.True(t, ok)
	assert.NotEqual(t, http.DefaultTransport, traced.Transport)
}

func TestConnectWithRetry(t *testing.T) {
	calls := 0
	err := connectWithRetry("fake", config.ConnectRetryConfig{Attempts: 3}, core.NewNopLogger(), func() error {
		calls++
		if calls < 2 {
			return assert.AnError
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = connectWithRetry("fake", config.ConnectRetryConfig{}, core.NewNopLogger(), func() error {
		calls++
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
