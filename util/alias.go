package util

type (
	TErrCode = uint16
)

type (
	Fn  func()
	FnM func(M)
)

func Default[T any]() (v T) {
	return
}
