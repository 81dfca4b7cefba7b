package util

import "context"

var (
	_Ctx, _Cancel = context.WithCancel(context.Background())
)

// Ctx is the process context, cancelled on exit.
func Ctx() context.Context {
	return _Ctx
}

func Cancel() {
	_Cancel()
}
