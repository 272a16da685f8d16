package playerclass

// WithoutKit makes new instances of k use the bare default behavior table
// until the returned func runs.
func WithoutKit(k Kind) (restore func()) {
	prev := factories[k]
	factories[k] = defaultBehavior
	return func() { factories[k] = prev }
}
