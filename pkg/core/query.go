package core

// QueryGenerator compiles a decoded envelope into a dialect-specific
// statement. Implementations must be safe for concurrent use and must never
// return a partial statement alongside an error.
type QueryGenerator interface {
	// Dispatch routes env to the builder for env.Action.
	Dispatch(env *Envelope) (*Statement, error)

	// Compile decodes a raw JSON request and dispatches it.
	Compile(raw []byte) (*Statement, error)
}
