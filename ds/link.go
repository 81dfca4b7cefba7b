package ds

import (
	"github.com/15mga/sigecs/util"
)

func NewLink[T any]() *Link[T] {
	return &Link[T]{}
}

// Link is a singly linked fifo.
type Link[T any] struct {
	head  *LinkElem[T]
	tail  *LinkElem[T]
	count int
}

type LinkElem[T any] struct {
	Next  *LinkElem[T]
	Value T
}

func (l *Link[T]) Count() int {
	return l.count
}

func (l *Link[T]) Push(a T) {
	_ = l.Add(a)
}

// Add pushes a and returns its element, DelElem takes it back out.
func (l *Link[T]) Add(a T) *LinkElem[T] {
	e := &LinkElem[T]{
		Value: a,
	}
	if l.count == 0 {
		l.head = e
	} else {
		l.tail.Next = e
	}
	l.tail = e
	l.count++
	return e
}

func (l *Link[T]) Pop() (T, bool) {
	if l.count == 0 {
		return util.Default[T](), false
	}
	e := l.head.Value
	l.head = l.head.Next
	l.count--
	if l.count == 0 {
		l.tail = nil
	}
	return e, true
}

func (l *Link[T]) Iter(fn func(T)) {
	for e := l.head; e != nil; e = e.Next {
		fn(e.Value)
	}
}

// Del removes the first element fn accepts.
func (l *Link[T]) Del(fn func(T) bool) bool {
	return l.del(func(e *LinkElem[T]) bool {
		return fn(e.Value)
	})
}

// DelElem removes elem, false if it is not in l. Next of a removed
// element is kept so an iteration in progress goes on.
func (l *Link[T]) DelElem(elem *LinkElem[T]) bool {
	if elem == nil {
		return false
	}
	return l.del(func(e *LinkElem[T]) bool {
		return e == elem
	})
}

func (l *Link[T]) del(fn func(*LinkElem[T]) bool) bool {
	var prev *LinkElem[T]
	for e := l.head; e != nil; e = e.Next {
		if !fn(e) {
			prev = e
			continue
		}
		if prev == nil {
			l.head = e.Next
		} else {
			prev.Next = e.Next
		}
		if l.tail == e {
			l.tail = prev
		}
		l.count--
		return true
	}
	return false
}

func (l *Link[T]) Values() []T {
	slc := make([]T, 0, l.count)
	for e := l.head; e != nil; e = e.Next {
		slc = append(slc, e.Value)
	}
	return slc
}

func (l *Link[T]) Reset() {
	l.head = nil
	l.tail = nil
	l.count = 0
}
