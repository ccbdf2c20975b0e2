// Package async provides a small generic Future type for running functions
// in their own goroutines and collecting their results later.
//
// A Future is obtained from Async, which starts the supplied function
// immediately and returns without blocking. The caller collects the outcome
// with Await, bounds the wait with AwaitWithTimeout, or polls with
// IsComplete. WaitAll gathers a batch of futures of the same result type.
//
// If the context is already canceled when the goroutine starts, the function
// is never invoked and the Future completes with the context error.
//
// # Usage
//
//	future := async.Async(ctx, path, func(_ context.Context, p string) (string, error) {
//	    return p, os.Remove(p)
//	})
//
//	// do other work...
//	removed, err := future.Await()
//
// The upload engines in the root package use this for best-effort cleanup
// fan-out: every pending removal runs concurrently and each outcome is
// inspected individually.
package async
