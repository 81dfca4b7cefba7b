package ecs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureMatches(t *testing.T) {
	required := NewSignature(1, 3)
	assert.True(t, NewSignature(1, 3).Matches(required))
	assert.True(t, NewSignature(0, 1, 3, 31).Matches(required))
	assert.False(t, NewSignature(1).Matches(required))
	assert.False(t, NewSignature(0, 2, 4).Matches(required))
}

func TestSignatureEmptyMatchesAll(t *testing.T) {
	var empty Signature
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.Matches(empty))
	assert.True(t, NewSignature(5).Matches(empty))
	assert.False(t, empty.Matches(NewSignature(5)))
}

func TestSignatureSetUnset(t *testing.T) {
	var s Signature
	s.Set(0)
	s.Set(MaxComponents - 1)
	assert.True(t, s.Test(0))
	assert.True(t, s.Test(MaxComponents-1))
	assert.Equal(t, 2, s.Count())
	s.Unset(0)
	s.Unset(0)
	assert.False(t, s.Test(0))
	assert.Equal(t, 1, s.Count())
	assert.False(t, s.Test(MaxComponents))
}

func TestSignatureOutOfRange(t *testing.T) {
	var s Signature
	assert.Panics(t, func() {
		s.Set(MaxComponents)
	})
}

func TestSignatureOps(t *testing.T) {
	a := NewSignature(1, 2)
	b := NewSignature(2, 7)
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(NewSignature(3)))
	assert.Equal(t, NewSignature(1, 2, 7), a.Or(b))
	assert.Equal(t, NewSignature(2), a.And(b))
	assert.Equal(t, []ComponentId{1, 2, 7}, a.Or(b).Ids())
}

func TestSignatureString(t *testing.T) {
	s := NewSignature(0, 2)
	str := s.String()
	assert.Len(t, str, MaxComponents)
	assert.True(t, strings.HasSuffix(str, "101"))
	assert.Equal(t, strings.Repeat("0", MaxComponents-3), str[:MaxComponents-3])
}
