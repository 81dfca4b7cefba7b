package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfMerge(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yml", `
log:
  levels: [debug, info]
  color: false
frame:
  tick_ms: 20
  parallel: true
registry:
  name: world
`)
	over := writeFile(t, dir, "over.yaml", `
frame:
  tick_ms: 33
`)
	conf := sigecs.DefConf()
	err := LoadConf(conf, ConvertConfLocalPath(base, over)...)
	require.Nil(t, err)
	assert.Equal(t, []string{"debug", "info"}, conf.Log.Levels)
	assert.False(t, conf.Log.Color)
	assert.Equal(t, int64(33), conf.Frame.TickMs)
	assert.True(t, conf.Frame.Parallel)
	assert.Equal(t, "world", conf.Registry.Name)
	assert.Equal(t, 100, conf.Registry.PoolCap)
	assert.Equal(t, "log", conf.Log.MgoDb)
}

func TestLoadConfRelative(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "conf.yml", "registry:\n  pool_cap: 8\n")
	old := _ConfRoot
	SetConfRoot(dir)
	defer SetConfRoot(old)

	conf := sigecs.DefConf()
	require.Nil(t, LoadConf(conf, ConvertConfLocalPath("conf.yml")...))
	assert.Equal(t, 8, conf.Registry.PoolCap)
}

func TestLoadConfErrors(t *testing.T) {
	err := LoadConf(sigecs.DefConf())
	require.NotNil(t, err)
	assert.Equal(t, util.EcParamsErr, err.Code())

	err = LoadConf(sigecs.DefConf(), "no-separator")
	require.NotNil(t, err)

	err = LoadConf(sigecs.DefConf(), "ftp|a.yml")
	require.NotNil(t, err)
	assert.Equal(t, util.EcNotExist, err.Code())

	err = LoadConf(sigecs.DefConf(), ConvertConfLocalPath(filepath.Join(t.TempDir(), "missing.yml"))...)
	require.NotNil(t, err)
	assert.Equal(t, util.EcIo, err.Code())
}

func TestLoadViperSkipsBroken(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yml", "a: 1\n")
	v, err := LoadViper(ConvertConfLocalPath(filepath.Join(dir, "missing.yml"), good)...)
	require.Nil(t, err)
	assert.Equal(t, 1, v.GetInt("a"))
}
