package ds

import (
	"github.com/15mga/sigecs/util"
)

func NewFnLink() *FnLink {
	return &FnLink{
		Link: NewLink[util.Fn](),
	}
}

// FnLink is an ordered list of callbacks.
type FnLink struct {
	*Link[util.Fn]
}

func (l *FnLink) Invoke() bool {
	if l.count == 0 {
		return false
	}
	for e := l.head; e != nil; e = e.Next {
		e.Value()
	}
	return true
}

// InvokeAndReset runs the callbacks pushed so far, callbacks pushed while
// invoking are kept for the next call.
func (l *FnLink) InvokeAndReset() bool {
	if l.count == 0 {
		return false
	}
	head := l.head
	l.Reset()
	for e := head; e != nil; e = e.Next {
		e.Value()
	}
	return true
}

func NewFnLink1[T any]() *FnLink1[T] {
	return &FnLink1[T]{
		Link: NewLink[func(T)](),
	}
}

// FnLink1 is an ordered list of callbacks taking one argument. Funcs are
// not comparable, callbacks are removed by the element Add returned.
type FnLink1[T any] struct {
	*Link[func(T)]
}

func (l *FnLink1[T]) Invoke(obj T) {
	for e := l.head; e != nil; e = e.Next {
		e.Value(obj)
	}
}
