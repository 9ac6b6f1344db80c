// Package ports defines interfaces for infrastructure operations.
// The host application depends on these abstractions; adapters under
// infrastructure/ implement them.
package ports
