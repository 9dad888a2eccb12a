package themes

// Collection is the project-side source of map themes. A map theme is a named
// snapshot of layer visibility and styling owned by the loaded project; the
// list model only mirrors it.
type Collection interface {
	// Themes returns the theme names in the order the project reports them.
	Themes() []string

	// Apply activates the named theme on the project, mutating its visible
	// layer state.
	Apply(name string) error
}
