// Package adapters provides the generic vendor SDK adapter that vendor
// packages (facebook, instagram) specialize with script URLs, init defaults,
// and permission scope tables.
package adapters
