package cli

import (
	"bytes"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allenshamrock/starttech/server/internal/config"
)

func TestFlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORT", "8080")
	t.Setenv("WATCH", "false")

	v := config.NewViper()
	cmd := NewRootCmd(v)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9191", "--static-dir", dir, "--watch", "--host", "127.0.0.1"}))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, dir, cfg.StaticDir)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "127.0.0.1:9191", cfg.Addr())
}

func TestEnvUsedWithoutFlags(t *testing.T) {
	t.Setenv("PORT", "8080")

	v := config.NewViper()
	cmd := NewRootCmd(v)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestDefaultPortWithoutEnvOrFlags(t *testing.T) {
	t.Setenv("PORT", "")

	v := config.NewViper()
	cmd := NewRootCmd(v)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
}

func TestExecuteBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	var stderr bytes.Buffer
	cmd := NewRootCmd(config.NewViper())
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--host", "127.0.0.1", "--port", fmt.Sprint(port), "--static-dir", t.TempDir()})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}

func TestRejectsArgs(t *testing.T) {
	cmd := NewRootCmd(config.NewViper())
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
