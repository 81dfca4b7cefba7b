package sigecs

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseVar(t *testing.T) {
	AddVar("tick_ms", int64(16), "frame tick")
	AddVar("parallel", false, "parallel systems")
	AddVar("registry_name", "main", "registry name")
	_ = os.Setenv("REGISTRY_NAME", "world")
	defer os.Unsetenv("REGISTRY_NAME")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	ParseVarFrom(fs, []string{"-tick_ms", "33", "-parallel"})

	tick, ok := GetVar[int64]("tick_ms")
	assert.True(t, ok)
	assert.Equal(t, int64(33), tick)
	parallel, _ := GetVar[bool]("parallel")
	assert.True(t, parallel)
	name, _ := GetVar[string]("registry_name")
	assert.Equal(t, "world", name)

	_, ok = GetVar[int]("tick_ms")
	assert.False(t, ok)
	_, ok = GetVar[int]("missing")
	assert.False(t, ok)
}

func TestLevelHelpers(t *testing.T) {
	mask := StrLvlToMask(SWarn, SError)
	assert.Equal(t, TWarn|TError, mask)
	assert.Equal(t, TInfo, StrToLevel("unknown"))
	assert.Equal(t, SFatal, LevelToStr(TFatal))
	assert.Equal(t, LvlToMask(ProdLevels...), TWarn|TError|TFatal)
}

func TestRunExitHooks(t *testing.T) {
	done := false
	BeforeExitFn("flag", func() {
		done = true
	})
	ch := BeforeExitCh("closer")
	close(ch)
	assert.True(t, RunExitHooks(time.Second))
	assert.True(t, done)

	BeforeExitCh("never")
	assert.False(t, RunExitHooks(10*time.Millisecond))
}
