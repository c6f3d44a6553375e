// Package codepath holds the ordered list of directories the loader and
// compiler search for code. The CLI mutates it through -pa/-pz; it is an
// explicit object handed to collaborators rather than process-global state.
package codepath

import "sync"

// Path is an ordered directory list. The zero value is usable.
type Path struct {
	mu   sync.Mutex
	dirs []string
}

// New returns a Path preloaded with the given directories.
func New(dirs ...string) *Path {
	return &Path{dirs: append([]string(nil), dirs...)}
}

// Prepend inserts dirs at the front, keeping their relative order.
func (p *Path) Prepend(dirs ...string) {
	if len(dirs) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirs = append(append([]string(nil), dirs...), p.dirs...)
}

// Append adds dirs at the back.
func (p *Path) Append(dirs ...string) {
	if len(dirs) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirs = append(p.dirs, dirs...)
}

// Dirs returns a snapshot of the current search order.
func (p *Path) Dirs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.dirs...)
}
