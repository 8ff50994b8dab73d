package sim

import "fmt"

// Step is one algorithmic step recorded by a simulator. The set of
// variants is closed; each game records the ones that describe it.
type Step interface {
	Kind() string
	Describe() string
	isStep()
}

// Compare records a comparison of two positions.
type Compare struct {
	I       int  `json:"i"`
	J       int  `json:"j"`
	Left    int  `json:"left"`
	Right   int  `json:"right"`
	Swapped bool `json:"swapped"`
}

// Swap records an exchange of two positions.
type Swap struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Insert records a value placed at a position.
type Insert struct {
	Value    int  `json:"value"`
	Position int  `json:"position"`
	Correct  bool `json:"correct"`
}

// Probe records one binary search probe.
type Probe struct {
	Left    int    `json:"left"`
	Right   int    `json:"right"`
	Mid     int    `json:"mid"`
	Value   int    `json:"value"`
	Outcome string `json:"outcome"`
}

// Push records a value pushed onto a stack.
type Push struct {
	Value int `json:"value"`
}

// Pop records a value popped off a stack.
type Pop struct {
	Value int `json:"value"`
}

// Enqueue records a value added at the back of a queue.
type Enqueue struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Dequeue records a value removed from the front of a queue.
type Dequeue struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Move records a disk moved between towers.
type Move struct {
	Disk int `json:"disk"`
	From int `json:"from"`
	To   int `json:"to"`
}

// Call records a recursive call frame being pushed.
type Call struct {
	Level int `json:"level"`
	A     int `json:"a"`
	B     int `json:"b"`
}

// Return records a frame resolving with a result.
type Return struct {
	Level  int `json:"level"`
	Result int `json:"result"`
}

// Dispatch records a CPU interval given to a process.
type Dispatch struct {
	PID   string `json:"pid"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Allocate records a block handed to a process.
type Allocate struct {
	PID   string `json:"pid"`
	Start int    `json:"start"`
	Size  int    `json:"size"`
}

// Free records a process releasing its block.
type Free struct {
	PID   string `json:"pid"`
	Start int    `json:"start"`
	Size  int    `json:"size"`
}

// PhaseChange records a game phase transition.
type PhaseChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Note is a free-form explanation line.
type Note struct {
	Text string `json:"text"`
}

func (Compare) Kind() string     { return "compare" }
func (Swap) Kind() string        { return "swap" }
func (Insert) Kind() string      { return "insert" }
func (Probe) Kind() string       { return "probe" }
func (Push) Kind() string        { return "push" }
func (Pop) Kind() string         { return "pop" }
func (Enqueue) Kind() string     { return "enqueue" }
func (Dequeue) Kind() string     { return "dequeue" }
func (Move) Kind() string        { return "move" }
func (Call) Kind() string        { return "call" }
func (Return) Kind() string      { return "return" }
func (Dispatch) Kind() string    { return "dispatch" }
func (Allocate) Kind() string    { return "allocate" }
func (Free) Kind() string        { return "free" }
func (PhaseChange) Kind() string { return "phase" }
func (Note) Kind() string        { return "note" }

func (s Compare) Describe() string {
	verdict := "keep"
	if s.Swapped {
		verdict = "swap"
	}
	return fmt.Sprintf("compare index %d,%d (%d vs %d): %s", s.I, s.J, s.Left, s.Right, verdict)
}

func (s Swap) Describe() string { return fmt.Sprintf("swap index %d,%d", s.I, s.J) }

func (s Insert) Describe() string {
	return fmt.Sprintf("insert %d at position %d", s.Value, s.Position)
}

func (s Probe) Describe() string {
	return fmt.Sprintf("probe [%d,%d] mid=%d value=%d: %s", s.Left, s.Right, s.Mid, s.Value, s.Outcome)
}

func (s Push) Describe() string    { return fmt.Sprintf("push %d", s.Value) }
func (s Pop) Describe() string     { return fmt.Sprintf("pop %d", s.Value) }
func (s Enqueue) Describe() string { return fmt.Sprintf("enqueue %s (%d)", s.ID, s.Value) }
func (s Dequeue) Describe() string { return fmt.Sprintf("dequeue %s (%d)", s.ID, s.Value) }

func (s Move) Describe() string {
	return fmt.Sprintf("move disk %d from %c to %c", s.Disk, 'A'+rune(s.From), 'A'+rune(s.To))
}

func (s Call) Describe() string {
	return fmt.Sprintf("level %d: call multiply(%d,%d)", s.Level, s.A, s.B)
}

func (s Return) Describe() string {
	return fmt.Sprintf("level %d: return %d", s.Level, s.Result)
}

func (s Dispatch) Describe() string {
	return fmt.Sprintf("run %s from %d to %d", s.PID, s.Start, s.End)
}

func (s Allocate) Describe() string {
	return fmt.Sprintf("allocate %d to %s at %d", s.Size, s.PID, s.Start)
}

func (s Free) Describe() string {
	return fmt.Sprintf("free %s (%d at %d)", s.PID, s.Size, s.Start)
}

func (s PhaseChange) Describe() string { return fmt.Sprintf("phase %s -> %s", s.From, s.To) }
func (s Note) Describe() string        { return s.Text }

func (Compare) isStep()     {}
func (Swap) isStep()        {}
func (Insert) isStep()      {}
func (Probe) isStep()       {}
func (Push) isStep()        {}
func (Pop) isStep()         {}
func (Enqueue) isStep()     {}
func (Dequeue) isStep()     {}
func (Move) isStep()        {}
func (Call) isStep()        {}
func (Return) isStep()      {}
func (Dispatch) isStep()    {}
func (Allocate) isStep()    {}
func (Free) isStep()        {}
func (PhaseChange) isStep() {}
func (Note) isStep()        {}
