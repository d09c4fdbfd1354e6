package cli

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditlens/internal/config"
	"creditlens/internal/log"
)

func TestSetupLogger(t *testing.T) {
	logger, err := SetupLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, log.ComponentCLI, logger.Component())

	_, err = SetupLogger("loud")
	require.Error(t, err)
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, LoadEnvFile())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte("CREDITLENS_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("CREDITLENS_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("CREDITLENS_TEST_VALUE"))

	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "from-dotenv", os.Getenv("CREDITLENS_TEST_VALUE"))
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "9001")

	cfg, err := LoadAndValidateConfig(func(c *config.Config) { c.OpenBrowser = false })
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.False(t, cfg.OpenBrowser)

	_, err = LoadAndValidateConfig(func(c *config.Config) { c.Port = 0 })
	require.Error(t, err)
}

func TestGracefulShutdownOnParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	called := make(chan struct{})
	_, done := GracefulShutdown(parent, log.Discard(), time.Second, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		close(called)
		return errors.New("already closed")
	})

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	select {
	case <-called:
	default:
		t.Fatal("shutdown func not called")
	}
}

func TestOpenBrowser(t *testing.T) {
	var got string
	orig := openURL
	t.Cleanup(func() { openURL = orig })

	openURL = func(url string) error { got = url; return nil }
	OpenBrowser(log.Discard(), "http://127.0.0.1:8050/")
	assert.Equal(t, "http://127.0.0.1:8050/", got)

	openURL = func(string) error { return errors.New("no display") }
	OpenBrowser(log.Discard(), "http://127.0.0.1:8050/")
}
