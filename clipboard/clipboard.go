// Package clipboard provides the clipboard behind simulated cut, copy and
// paste commands.
package clipboard

import "sync"

// Clipboard reads and writes plain text.
type Clipboard interface {
	Available() bool
	Read() (string, error)
	Write(text string) error
}

// MemoryClipboard keeps the text in process. A nil MemoryClipboard is an
// empty clipboard that ignores writes.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// Available reports true.
func (c *MemoryClipboard) Available() bool {
	return true
}

// Read returns the stored text.
func (c *MemoryClipboard) Read() (string, error) {
	if c == nil {
		return "", nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// Write replaces the stored text.
func (c *MemoryClipboard) Write(text string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return nil
}

// UnavailableClipboard is a clipboard that holds nothing.
type UnavailableClipboard struct{}

func (UnavailableClipboard) Available() bool       { return false }
func (UnavailableClipboard) Read() (string, error) { return "", nil }
func (UnavailableClipboard) Write(string) error    { return nil }
