package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	err := NewErr(EcSystemNotExist, M{"system": "move"})
	assert.Equal(t, EcSystemNotExist, err.Code())
	assert.Equal(t, "system_not_exist", err.String())
	assert.NotEmpty(t, err.Stack())
	v, ok := err.GetParam("system")
	assert.True(t, ok)
	assert.Equal(t, "move", v)

	m := M{}
	assert.Nil(t, JsonUnmarshal(err.ToBytes(), &m))
	assert.Equal(t, "system_not_exist", m["code"])

	wrapped := WrapErr(EcIo, errors.New("disk"))
	assert.Equal(t, "disk", wrapped.Error())
	assert.Equal(t, "123", ErrCodeToStr(123))
}

func TestNextCap(t *testing.T) {
	assert.Equal(t, 1, NextPowerOfTwo(0))
	assert.Equal(t, 8, NextPowerOfTwo(5))
	assert.Equal(t, 8, NextPowerOfTwo(8))

	c, ok := NextCap(10, 16, 1024)
	assert.False(t, ok)
	assert.Equal(t, 16, c)
	c, ok = NextCap(100, 16, 1024)
	assert.True(t, ok)
	assert.Equal(t, 128, c)
	c, _ = NextCap(2100, 1024, 1024)
	assert.Equal(t, 3072, c)
}

func TestGenMaskAndTestMask(t *testing.T) {
	mask := GenMask(1, 4)
	assert.True(t, TestMask(4, mask))
	assert.False(t, TestMask(2, mask))
}

func TestVec2(t *testing.T) {
	v := Vec2Add(Vec2{X: 1, Y: 2}, Vec2Mul(Vec2{X: 3, Y: 4}, 2))
	assert.Equal(t, Vec2{X: 7, Y: 10}, v)
	assert.Equal(t, 0, Cmp(0.1+0.2, 0.3))
	assert.Equal(t, 1, Cmp(1, 0))
}

func TestToUnderline(t *testing.T) {
	assert.Equal(t, "rigid_body", ToUnderline("RigidBody"))
	assert.Equal(t, "sprite", ToUnderline("Sprite"))
}

func TestMCopy(t *testing.T) {
	m := M{"a": 1}
	n := m.Copy()
	n["b"] = 2
	assert.Equal(t, M{"a": 1}, m)
	assert.Equal(t, M{"a": 1, "b": 2}, n)

	bytes, err := JsonMarshalIndent(n, "  ")
	assert.Nil(t, err)
	assert.Contains(t, string(bytes), "\n  \"b\"")
	back := M{}
	assert.Nil(t, JsonUnmarshal(bytes, &back))
	assert.Len(t, back, 2)
}

func TestSample(t *testing.T) {
	m := Sample(0)
	assert.Contains(t, m, Heap)
	assert.Contains(t, m, Goroutine)
}
