package eboekhouden

import "context"

// Transport is the RPC channel to the e-Boekhouden SOAP service. It invokes
// a named remote operation with a bundle of named arguments and returns the
// decoded result bundle. Implementations own serialization, timeouts and
// cancellation; the client never retries a failed invocation.
//
// Argument values are strings, numbers, nested map[string]any bundles or
// slices of those. Result values are strings, map[string]any or []any.
type Transport interface {
	Invoke(ctx context.Context, operation string, args map[string]any) (map[string]any, error)
}
