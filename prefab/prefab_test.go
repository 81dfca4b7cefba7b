package prefab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/15mga/sigecs/ecs"
	"github.com/15mga/sigecs/loader"
	"github.com/15mga/sigecs/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	Transform struct {
		Pos   util.Vec2
		Scale float32
	}
	RigidBody struct {
		Velocity util.Vec2
		Mass     float32
	}
	Player struct {
		Name string
	}
)

const _Yaml = `
ship:
  transform:
    pos: {x: 1, y: 2}
  rigid_body:
    velocity: {x: 0.5, y: -1}
    mass: 3
  player:
    name: ace
rock:
  transform:
    scale: "2"
`

func newCatalog() *Catalog {
	c := NewCatalog()
	BindDefault(c, "", func() Transform {
		return Transform{Scale: 1}
	})
	Bind[RigidBody](c, "")
	Bind[Player](c, "player")
	return c
}

func newRegistry() *ecs.Registry {
	return ecs.NewRegistry()
}

func TestLoadAndSpawn(t *testing.T) {
	p := filepath.Join(t.TempDir(), "prefab.yml")
	require.NoError(t, os.WriteFile(p, []byte(_Yaml), 0o644))
	blueprints, err := LoadBlueprints(loader.ConvertConfLocalPath(p)...)
	require.Nil(t, err)
	require.Contains(t, blueprints, "ship")
	require.Contains(t, blueprints, "rock")

	c := newCatalog()
	assert.Equal(t, []string{"player", "rigid_body", "transform"}, c.Names())
	r := newRegistry()

	ship, err := c.Spawn(r, blueprints["ship"])
	require.Nil(t, err)
	assert.Equal(t, Transform{Pos: util.Vec2{X: 1, Y: 2}, Scale: 1}, *ecs.Get[Transform](ship))
	assert.Equal(t, RigidBody{Velocity: util.Vec2{X: 0.5, Y: -1}, Mass: 3}, *ecs.Get[RigidBody](ship))
	assert.Equal(t, "ace", ecs.Get[Player](ship).Name)

	rock, err := c.Spawn(r, blueprints["rock"])
	require.Nil(t, err)
	assert.Equal(t, float32(2), ecs.Get[Transform](rock).Scale)
	assert.False(t, ecs.Has[RigidBody](rock))
}

func TestSpawnUnknownComponent(t *testing.T) {
	c := newCatalog()
	r := newRegistry()
	e, err := c.Spawn(r, Blueprint{
		"transform": util.M{},
		"shield":    util.M{"hp": 1},
	})
	require.NotNil(t, err)
	assert.Equal(t, util.EcComponentNotExist, err.Code())
	assert.False(t, e.IsValid())
	assert.Equal(t, 0, r.EntityCount())
}

func TestSpawnBadField(t *testing.T) {
	c := newCatalog()
	r := newRegistry()
	_, err := c.Spawn(r, Blueprint{
		"rigid_body": util.M{"mass": "heavy"},
	})
	require.NotNil(t, err)
	assert.Equal(t, util.EcUnmarshallErr, err.Code())

	_, err = c.Spawn(r, Blueprint{
		"rigid_body": util.M{"speed": 1},
	})
	assert.NotNil(t, err)
}

func TestParseBlueprints(t *testing.T) {
	_, err := ParseBlueprints(map[string]any{
		"bad": 1,
	})
	require.NotNil(t, err)
	assert.Equal(t, util.EcParseErr, err.Code())

	bps, err := ParseBlueprints(map[string]any{
		"ok": map[any]any{
			"player": nil,
		},
	})
	require.Nil(t, err)
	assert.True(t, newCatalog().Has("PLAYER"))
	assert.Equal(t, util.M{}, bps["ok"]["player"])
}
