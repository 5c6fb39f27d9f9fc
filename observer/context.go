// Package observer implements the Subject/Observer value-propagation layer:
// typed value channels between vertices, the observer manager that owns a
// vertex's inbound observer set, and the arena that stands in for the
// source material's raw pointers into sibling member storage.
package observer

import "sync"

// Context owns the process-wide monotonic Subject id counter described in
// spec.md §3. It is deliberately not a package-level variable (design note:
// "model as an atomic counter owned by the kernel context, not the
// module") so that independent simulation runs, such as parallel tests,
// get independent id spaces by constructing a fresh Context each.
type Context struct {
	mu   sync.Mutex
	next uint64
}

// NewContext creates an id space whose first allocated id is 1; id 0 is
// permanently reserved for "moved-from / unused" subjects.
func NewContext() *Context {
	return &Context{next: 1}
}

// NextID allocates the next subject id.
func (c *Context) NextID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}
