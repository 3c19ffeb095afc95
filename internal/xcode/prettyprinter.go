package xcode

import (
	"context"
	"sync"

	"xcodemcp/internal/command"
)

// prettyPrinter is the external formatter piped after xcodebuild when
// available. Its absence degrades gracefully to raw output.
const prettyPrinter = "xcbeautify"

// AvailabilityCache memoizes the pretty-printer probe for the process
// lifetime. It is an explicit injectable object rather than a module
// variable so tests can construct isolated instances; Reset exists for
// test isolation and is otherwise never called. Concurrent tool calls
// may race on the first probe, so access is serialized.
type AvailabilityCache struct {
	mu        sync.Mutex
	probed    bool
	available bool
}

// NewAvailabilityCache returns an empty cache.
func NewAvailabilityCache() *AvailabilityCache {
	return &AvailabilityCache{}
}

// Get returns the cached value and whether a probe has happened.
func (c *AvailabilityCache) Get() (available, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available, c.probed
}

// Set records a probe result.
func (c *AvailabilityCache) Set(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probed = true
	c.available = available
}

// Reset clears the cache.
func (c *AvailabilityCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probed = false
	c.available = false
}

// prettyPrinterAvailable probes for xcbeautify through the runner,
// consulting the cache first. Both successful and failed probes are
// memoized, so the underlying executor runs at most once per process.
func prettyPrinterAvailable(ctx context.Context, runner command.Runner, cache *AvailabilityCache) bool {
	if v, ok := cache.Get(); ok {
		return v
	}
	res, err := runner.Run(ctx, []string{"which", prettyPrinter}, "pretty-printer probe", nil)
	available := err == nil && res != nil && res.Success
	cache.Set(available)
	return available
}
