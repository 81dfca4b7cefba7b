package ecs

// ISystem is implemented by embedding System in a struct and passing a
// pointer to it.
type ISystem interface {
	Base() *System
	// OnStart runs on the frame goroutine before the first OnUpdate.
	OnStart(frame *Frame)
	OnUpdate(frame *Frame)
	// OnStop runs when the system is removed or the frame is disposed.
	OnStop()
}
