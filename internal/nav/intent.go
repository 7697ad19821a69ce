package nav

import "sync"

// Intent buffers the most recent scheduled navigation until the shell
// consumes it. The login controller's deferred navigation writes here.
type Intent struct {
	mu   sync.Mutex
	path string
}

// Set records a navigation target, replacing any unconsumed one.
func (i *Intent) Set(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.path = path
}

// Take returns and clears the pending target; empty when none is pending.
func (i *Intent) Take() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	path := i.path
	i.path = ""
	return path
}
