package ecs

import (
	"math/bits"
	"strings"

	"github.com/15mga/sigecs/util"
)

const (
	_BitsPerWord = 64
	_SigWords    = (MaxComponents + _BitsPerWord - 1) / _BitsPerWord
)

// Signature is a bitset of component ids. For an entity it records the
// components it owns, for a system the components it requires.
type Signature [_SigWords]uint64

func NewSignature(ids ...ComponentId) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(id)
	}
	return s
}

func checkBit(id ComponentId) {
	if int(id) >= MaxComponents {
		panic(util.NewErr(util.EcOutOfRange, util.M{
			"component": id,
			"max":       MaxComponents,
		}))
	}
}

func (s *Signature) Set(id ComponentId) {
	checkBit(id)
	s[id/_BitsPerWord] |= 1 << (id % _BitsPerWord)
}

func (s *Signature) Unset(id ComponentId) {
	checkBit(id)
	s[id/_BitsPerWord] &^= 1 << (id % _BitsPerWord)
}

func (s Signature) Test(id ComponentId) bool {
	if int(id) >= MaxComponents {
		return false
	}
	return s[id/_BitsPerWord]&(1<<(id%_BitsPerWord)) != 0
}

// Matches reports whether s owns every bit of required, (s & required) == required.
// An empty requirement matches everything.
func (s Signature) Matches(required Signature) bool {
	for i := 0; i < _SigWords; i++ {
		if s[i]&required[i] != required[i] {
			return false
		}
	}
	return true
}

func (s Signature) Intersects(o Signature) bool {
	for i := 0; i < _SigWords; i++ {
		if s[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

func (s Signature) Or(o Signature) Signature {
	for i := 0; i < _SigWords; i++ {
		s[i] |= o[i]
	}
	return s
}

func (s Signature) And(o Signature) Signature {
	for i := 0; i < _SigWords; i++ {
		s[i] &= o[i]
	}
	return s
}

func (s Signature) IsEmpty() bool {
	for i := 0; i < _SigWords; i++ {
		if s[i] != 0 {
			return false
		}
	}
	return true
}

func (s Signature) Count() int {
	n := 0
	for i := 0; i < _SigWords; i++ {
		n += bits.OnesCount64(s[i])
	}
	return n
}

// Ids lists the set component ids in ascending order.
func (s Signature) Ids() []ComponentId {
	ids := make([]ComponentId, 0, s.Count())
	for i := 0; i < _SigWords; i++ {
		w := s[i]
		for w != 0 {
			b := bits.TrailingZeros64(w)
			ids = append(ids, ComponentId(i*_BitsPerWord+b))
			w &= w - 1
		}
	}
	return ids
}

// String renders MaxComponents bits, highest id first.
func (s Signature) String() string {
	var sb strings.Builder
	sb.Grow(MaxComponents)
	for i := MaxComponents - 1; i >= 0; i-- {
		if s.Test(ComponentId(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
