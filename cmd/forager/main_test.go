package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-forager/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func smallConfigFile(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.GridWidth, cfg.GridHeight = 6, 6
	cfg.NumTargets, cfg.NumObstacles, cfg.NumSlowCells = 2, 2, 2
	cfg.MaxTicks = 50
	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, config.Save(cfg, path, false))
	return path
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "forager.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err, "existing file is kept without --force")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestConfigShowAppliesFlagsOverFile(t *testing.T) {
	path := smallConfigFile(t)

	out, err := execute(t, "config", "show", "-c", path, "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "seed: 42")
	assert.Contains(t, out, "grid_width: 6")
}

func TestConfigValidate(t *testing.T) {
	out, err := execute(t, "config", "validate", "-c", smallConfigFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "config: ok")
	assert.Contains(t, out, "reserve: ")

	_, err = execute(t, "config", "validate", "--width", "0")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestSimCommand(t *testing.T) {
	color.NoColor = true
	out, err := execute(t, "sim", "-c", smallConfigFile(t), "--metrics", "--map=false")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:")
	assert.Contains(t, out, "forager_ticks_total")
	assert.NotContains(t, out, "facing", "map rendering is off")
}

func TestBatchCommand(t *testing.T) {
	out, err := execute(t, "batch", "-c", smallConfigFile(t), "-n", "3", "-p", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "episodes 3,")
}
