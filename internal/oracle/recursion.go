package oracle

import "errors"

// Frame is one activation of multiply(a, b) on the call stack.
// Child holds the value returned by the frame above it once HasChild is set.
type Frame struct {
	Level    int  `json:"level"`
	A        int  `json:"a"`
	B        int  `json:"b"`
	Child    int  `json:"child"`
	HasChild bool `json:"has_child"`
	Result   int  `json:"result"`
	Resolved bool `json:"resolved"`
}

// FrameActionKind is what the call stack does next.
type FrameActionKind string

const (
	FrameCall   FrameActionKind = "call"
	FrameReturn FrameActionKind = "return"
	FrameNone   FrameActionKind = "none"
)

// FrameAction is the oracle's next step. Value is the returned value for
// FrameReturn.
type FrameAction struct {
	Kind  FrameActionKind `json:"kind"`
	Value int             `json:"value,omitempty"`
}

// ErrIllegalFrameAction is returned when an action does not match the
// state of the stack.
var ErrIllegalFrameAction = errors.New("illegal call stack action")

// RootFrame starts the evaluation of multiply(a, b).
func RootFrame(a, b int) []Frame {
	return []Frame{{Level: 0, A: a, B: b}}
}

// NextFrameAction returns the next step: base cases return directly,
// a frame with b > 1 calls multiply(a, b-1) first, and a frame whose
// child returned gives back a + child.
func NextFrameAction(stack []Frame) FrameAction {
	if len(stack) == 0 {
		return FrameAction{Kind: FrameNone}
	}
	top := stack[len(stack)-1]
	switch {
	case top.Resolved:
		return FrameAction{Kind: FrameNone}
	case top.B == 0:
		return FrameAction{Kind: FrameReturn, Value: 0}
	case top.B == 1:
		return FrameAction{Kind: FrameReturn, Value: top.A}
	case !top.HasChild:
		return FrameAction{Kind: FrameCall}
	default:
		return FrameAction{Kind: FrameReturn, Value: top.A + top.Child}
	}
}

// ApplyFrameAction performs kind on a copy of stack. A return resolves
// the top frame; unless it is the root, the frame is popped and its
// result is handed to its parent.
func ApplyFrameAction(stack []Frame, kind FrameActionKind) ([]Frame, error) {
	want := NextFrameAction(stack)
	if want.Kind == FrameNone || want.Kind != kind {
		return stack, ErrIllegalFrameAction
	}

	out := append([]Frame(nil), stack...)
	top := out[len(out)-1]

	if kind == FrameCall {
		return append(out, Frame{Level: top.Level + 1, A: top.A, B: top.B - 1}), nil
	}

	top.Result = want.Value
	top.Resolved = true
	if top.Level == 0 || len(out) == 1 {
		out[len(out)-1] = top
		return out, nil
	}
	out = out[:len(out)-1]
	parent := out[len(out)-1]
	parent.Child = top.Result
	parent.HasChild = true
	out[len(out)-1] = parent
	return out, nil
}

// RootResolved reports whether the level 0 frame has its result.
func RootResolved(stack []Frame) bool {
	return len(stack) == 1 && stack[0].Level == 0 && stack[0].Resolved
}

// Multiply evaluates multiply(a, b) through the call stack and returns
// the root result along with the peak stack depth.
func Multiply(a, b int) (result, depth int) {
	stack := RootFrame(a, b)
	depth = 1
	for {
		next := NextFrameAction(stack)
		if next.Kind == FrameNone {
			return stack[0].Result, depth
		}
		stack, _ = ApplyFrameAction(stack, next.Kind)
		if len(stack) > depth {
			depth = len(stack)
		}
	}
}
