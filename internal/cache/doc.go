// Package cache stores previously generated code keyed by a deterministic
// fingerprint of (provider, prompt, language, model).
//
// The cache has two tiers. The in-memory map is the only tier consulted on
// lookup. Every store is also written to a Mirror (one file per fingerprint on
// disk, or a Redis key) for durability; mirrors are never read back within a
// process lifetime.
package cache
