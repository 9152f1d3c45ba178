// Package mocks provides hand-written test doubles with call tracking for the
// interfaces consumed by the release, backport and changelog packages.
package mocks

import "sync"

// MethodCall represents a single recorded method call with its arguments.
type MethodCall struct {
	Method string
	Args   map[string]any
}

// recorder is embedded by every mock to record calls in a thread-safe way.
type recorder struct {
	mu    sync.Mutex
	calls []MethodCall
}

// GetCalls returns all tracked method calls.
func (r *recorder) GetCalls() []MethodCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MethodCall{}, r.calls...)
}

// GetCallCount returns the number of times a method was called.
func (r *recorder) GetCallCount(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, call := range r.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// GetLastCall returns the last call to the specified method, or nil if not called.
func (r *recorder) GetLastCall(method string) *MethodCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Method == method {
			return &r.calls[i]
		}
	}
	return nil
}

// MethodSequence returns the names of all recorded calls in order.
func (r *recorder) MethodSequence() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, call := range r.calls {
		out[i] = call.Method
	}
	return out
}

// Reset clears all tracked calls.
func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// trackCall records a method call with its arguments.
func (r *recorder) trackCall(method string, args map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, MethodCall{
		Method: method,
		Args:   args,
	})
}
