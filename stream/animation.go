package stream

// An Animation renders a frame for a point in time, given in milliseconds
// since streaming began.
type Animation interface {
	CalculateFrame(runtimeMs int64) *Frame
}

// A Director is an Animation that can be steered with control messages.
type Director interface {
	Animation
	Handle(msg ControlMessage) error
}
