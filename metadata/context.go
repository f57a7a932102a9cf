package metadata

// Context configures how references are resolved while a module is loaded
// and used.
type Context struct {
	// Resolver supplies assembly resolution; may be nil when the host has
	// no resolution policy.
	Resolver Resolver

	// ProjectWinMDTypes applies the WinMD cross-language type projection
	// during token resolution. Interactive navigation wants the literal
	// on-disk type, so loaders leave this off; consumers working on raw
	// signatures may opt in on their own contexts.
	ProjectWinMDTypes bool
}

// NewContext builds the load context used by the loader: the given resolver,
// WinMD projection disabled.
func NewContext(resolver Resolver) *Context {
	return &Context{Resolver: resolver}
}
