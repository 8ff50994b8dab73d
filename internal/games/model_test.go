package games

import (
	"fmt"
	"reflect"

	"github.com/anishathalye/porcupine"
)

// containerOp is one push or pop observed on a LIFO or FIFO container.
type containerOp struct {
	Push  bool
	Value int
}

// containerModel checks a sequential history against a stack (lifo) or a
// queue. States are immutable []int slices, front or bottom first.
func containerModel(lifo bool) porcupine.Model {
	return porcupine.Model{
		Init: func() interface{} { return []int{} },
		Step: func(state, input, output interface{}) (bool, interface{}) {
			items := state.([]int)
			op := input.(containerOp)
			if op.Push {
				next := append(append([]int(nil), items...), op.Value)
				return true, next
			}
			if len(items) == 0 {
				return false, state
			}
			if lifo {
				top := items[len(items)-1]
				return top == output.(int), append([]int(nil), items[:len(items)-1]...)
			}
			return items[0] == output.(int), append([]int(nil), items[1:]...)
		},
		Equal: func(a, b interface{}) bool { return reflect.DeepEqual(a, b) },
		DescribeOperation: func(input, output interface{}) string {
			op := input.(containerOp)
			if op.Push {
				return fmt.Sprintf("push(%d)", op.Value)
			}
			return fmt.Sprintf("pop() -> %v", output)
		},
	}
}

// history records operations one after another on a single client.
type history struct {
	ops  []porcupine.Operation
	time int64
}

func (h *history) push(v int) {
	h.add(containerOp{Push: true, Value: v}, nil)
}

func (h *history) pop(v int) {
	h.add(containerOp{}, v)
}

func (h *history) add(input, output interface{}) {
	h.ops = append(h.ops, porcupine.Operation{Input: input, Call: h.time, Output: output, Return: h.time + 1})
	h.time += 2
}
