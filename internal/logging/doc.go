// Package logging provides the starload.Logger implementations.
//
//   - ConsoleLogger writes prefixed lines to stderr, or any writer
//   - NullLogger discards everything and is the default in tests
//
// Both are safe for concurrent use.
package logging
