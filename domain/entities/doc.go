// Package entities provides the core domain types shared by the script host:
// key identifiers, host status codes, lifecycle hook names and the read-only
// views of a loaded session that hosts use for introspection.
package entities
