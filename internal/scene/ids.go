package scene

import "strconv"

// Allocator issues object ids of the form "<prefix>-<n>", n counting from 1.
type Allocator struct {
	prefix string
	next   int
}

// NewAllocator returns an allocator whose first id is prefix-1.
func NewAllocator(prefix string) *Allocator {
	return &Allocator{prefix: prefix}
}

// Next returns a fresh id. Ids are never reused within an allocator.
func (a *Allocator) Next() string {
	a.next++
	return a.prefix + "-" + strconv.Itoa(a.next)
}

// Prefix is the run prefix shared by every id this allocator issues.
func (a *Allocator) Prefix() string { return a.prefix }
