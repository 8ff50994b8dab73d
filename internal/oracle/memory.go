package oracle

import "errors"

// Block is a contiguous region of simulated memory.
type Block struct {
	ID        int    `json:"id"`
	Start     int    `json:"start"`
	Size      int    `json:"size"`
	Allocated bool   `json:"allocated"`
	PID       string `json:"pid,omitempty"`
}

// End is the first address past the block.
func (b Block) End() int { return b.Start + b.Size }

// Memory is an address-ordered partition of blocks. NextID numbers the
// blocks created by splits and merges.
type Memory struct {
	Blocks []Block `json:"blocks"`
	NextID int     `json:"next_id"`
}

// Allocation errors.
var (
	ErrNoSuitableBlock  = errors.New("no suitable block")
	ErrUnknownProcess   = errors.New("process holds no block")
	ErrProcessAllocated = errors.New("process already holds a block")
	ErrInvalidSize      = errors.New("requested size must be positive")
)

// NewMemory lays out free blocks of the given sizes from address 0.
func NewMemory(sizes []int) Memory {
	m := Memory{Blocks: make([]Block, 0, len(sizes))}
	addr := 0
	for _, size := range sizes {
		m.NextID++
		m.Blocks = append(m.Blocks, Block{ID: m.NextID, Start: addr, Size: size})
		addr += size
	}
	return m
}

// FirstFit returns the index of the lowest-address free block whose size
// is at least size.
func FirstFit(blocks []Block, size int) (int, bool) {
	for i, b := range blocks {
		if !b.Allocated && b.Size >= size {
			return i, true
		}
	}
	return -1, false
}

// Allocate gives pid a block of exactly size using first fit. A larger
// block is split into the allocation and a free remainder right after it.
func Allocate(m Memory, pid string, size int) (Memory, Block, error) {
	if size <= 0 {
		return m, Block{}, ErrInvalidSize
	}
	if _, ok := m.Find(pid); ok {
		return m, Block{}, ErrProcessAllocated
	}
	i, ok := FirstFit(m.Blocks, size)
	if !ok {
		return m, Block{}, ErrNoSuitableBlock
	}

	out := m.clone()
	free := out.Blocks[i]
	used := Block{ID: free.ID, Start: free.Start, Size: size, Allocated: true, PID: pid}
	if free.Size == size {
		out.Blocks[i] = used
		return out, used, nil
	}

	out.NextID++
	rest := Block{ID: out.NextID, Start: free.Start + size, Size: free.Size - size}
	blocks := make([]Block, 0, len(out.Blocks)+1)
	blocks = append(blocks, out.Blocks[:i]...)
	blocks = append(blocks, used, rest)
	blocks = append(blocks, out.Blocks[i+1:]...)
	out.Blocks = blocks
	return out, used, nil
}

// Deallocate frees pid's block and merges it with the free block
// immediately before it and the one immediately after it. Free blocks
// further away are left alone, so untouched partitions keep their shape.
func Deallocate(m Memory, pid string) (Memory, Block, error) {
	idx := -1
	for i, b := range m.Blocks {
		if b.Allocated && b.PID == pid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, Block{}, ErrUnknownProcess
	}

	out := m.clone()
	released := out.Blocks[idx]
	freed := Block{ID: released.ID, Start: released.Start, Size: released.Size}

	lo, hi := idx, idx
	if lo > 0 && !out.Blocks[lo-1].Allocated {
		lo--
		freed.ID = out.Blocks[lo].ID
		freed.Start = out.Blocks[lo].Start
		freed.Size += out.Blocks[lo].Size
	}
	if hi+1 < len(out.Blocks) && !out.Blocks[hi+1].Allocated {
		hi++
		freed.Size += out.Blocks[hi].Size
	}

	blocks := make([]Block, 0, len(out.Blocks)-(hi-lo))
	blocks = append(blocks, out.Blocks[:lo]...)
	blocks = append(blocks, freed)
	blocks = append(blocks, out.Blocks[hi+1:]...)
	out.Blocks = blocks
	return out, released, nil
}

// Find returns the block held by pid.
func (m Memory) Find(pid string) (Block, bool) {
	for _, b := range m.Blocks {
		if b.Allocated && b.PID == pid {
			return b, true
		}
	}
	return Block{}, false
}

// Total is the size of the whole address space.
func (m Memory) Total() int {
	total := 0
	for _, b := range m.Blocks {
		total += b.Size
	}
	return total
}

// Free is the number of unallocated units.
func (m Memory) Free() int {
	free := 0
	for _, b := range m.Blocks {
		if !b.Allocated {
			free += b.Size
		}
	}
	return free
}

// Partitioned reports whether the blocks tile the address space from
// their first start with no gaps or overlaps.
func (m Memory) Partitioned() bool {
	for i := 1; i < len(m.Blocks); i++ {
		if m.Blocks[i].Start != m.Blocks[i-1].End() {
			return false
		}
	}
	for _, b := range m.Blocks {
		if b.Size <= 0 {
			return false
		}
	}
	return true
}

func (m Memory) clone() Memory {
	return Memory{Blocks: append([]Block(nil), m.Blocks...), NextID: m.NextID}
}
