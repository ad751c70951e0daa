package cayleygo

import "io"

// Close releases the cache. Resident tables are dropped and, if the durable
// store implements io.Closer, it is closed too (the cache owns its store).
// Close is idempotent; operations after Close return ErrClosed.
func (c *Cache) Close() error {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	c.entries = make(map[string]*memEntry)
	c.mu.Unlock()

	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
