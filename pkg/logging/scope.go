package logging

import (
	"context"
	"strings"
)

// scopeKey namespaces the scope stack stored in a context.Context.
type scopeKey struct{}

// BeginScope pushes state onto the scope chain carried by ctx, returning a
// child context whose scopes include it. Go's context.Context is
// immutable, so "popping" a scope (§4.9 beginScope returns a Disposable)
// has no separate operation here: a caller simply stops passing the child
// context and reverts to the parent it already held, which is exactly
// what a Dispose would have restored. Scopes are per goroutine only in the
// sense that they live on whichever context.Context a caller threads
// through — there is no ambient/thread-local propagation to a goroutine
// that wasn't handed the same context.
func BeginScope(ctx context.Context, state string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing := ScopesFromContext(ctx)
	next := make([]string, len(existing)+1)
	copy(next, existing)
	next[len(existing)] = state
	return context.WithValue(ctx, scopeKey{}, next)
}

// ScopesFromContext returns the scope chain captured on ctx, outermost
// first, or nil if none was pushed.
func ScopesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(scopeKey{}).([]string)
	return v
}

// scopePrefix renders ctx's scope chain as the "[Scopes: S1 | S2]" prefix
// §4.9 step 3 mandates, or "" if no scope was pushed.
func scopePrefix(ctx context.Context) string {
	scopes := ScopesFromContext(ctx)
	if len(scopes) == 0 {
		return ""
	}
	return "[Scopes: " + strings.Join(scopes, " | ") + "] "
}
