// internal/matcher/mock.go
package matcher

import "context"

// Func adapts a plain function to the Client interface, for tests and
// offline runs.
type Func func(ctx context.Context, req Request) (Response, error)

// Search implements Client.
func (f Func) Search(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }
