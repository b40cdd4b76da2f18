// Package core defines the domain model, contracts, and service runtime for
// the SDK load-lifecycle coordinator.
package core
