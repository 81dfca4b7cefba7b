package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolResizeKeepsValues(t *testing.T) {
	p := NewPool[position](2)
	assert.Equal(t, 2, p.Len())
	p.Set(1, position{X: 1, Y: 2})
	p.Resize(100)
	assert.Equal(t, 100, p.Len())
	assert.Equal(t, position{X: 1, Y: 2}, *p.Get(1))
	assert.Equal(t, position{}, *p.Get(99))
	p.Resize(10)
	assert.Equal(t, 100, p.Len())
}

func TestPoolGetPointer(t *testing.T) {
	p := NewPool[health](4)
	p.Get(2).Hp = 7
	assert.Equal(t, 7, p.Get(2).Hp)
}

func TestPoolResetClear(t *testing.T) {
	p := NewPool[health](4)
	p.Set(3, health{Hp: 1})
	p.Reset(3)
	p.Reset(40)
	assert.Equal(t, health{}, *p.Get(3))
	assert.False(t, p.IsEmpty())
	p.Clear()
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Len())
}

func TestPoolType(t *testing.T) {
	var p IPool = NewPool[velocity](0)
	assert.Equal(t, reflect.TypeOf(velocity{}), p.Type())
	assert.True(t, p.IsEmpty())
}
