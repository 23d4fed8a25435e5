package overlay

// Registry maps logical target names to measured rectangles. The hosting
// view updates it on every layout pass; the placement math never reaches
// into live layout state. It also tracks which target is highlighted so the
// mark can be cleared symmetrically when a tooltip hides.
type Registry struct {
	targets     map[string]Rect
	highlighted string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]Rect)}
}

// Register records (or replaces) a target's measured rectangle.
func (r *Registry) Register(name string, rect Rect) {
	r.targets[name] = rect
}

// Unregister removes a target. A highlighted target loses its mark too.
func (r *Registry) Unregister(name string) {
	delete(r.targets, name)
	if r.highlighted == name {
		r.highlighted = ""
	}
}

// Lookup returns a target's rectangle.
func (r *Registry) Lookup(name string) (Rect, bool) {
	rect, ok := r.targets[name]
	return rect, ok
}

// Highlight marks a single target as highlighted, replacing any prior mark.
// Unknown names clear the highlight instead of dangling.
func (r *Registry) Highlight(name string) {
	if _, ok := r.targets[name]; !ok {
		r.highlighted = ""
		return
	}
	r.highlighted = name
}

// ClearHighlight removes the highlight mark.
func (r *Registry) ClearHighlight() {
	r.highlighted = ""
}

// Highlighted reports whether the named target currently carries the mark.
func (r *Registry) Highlighted(name string) bool {
	return name != "" && r.highlighted == name
}
