// Package runtime provides the execution context for wpstarter commands.
//
// It encapsulates shared dependencies needed by actions, such as the
// logger, the loaded configuration, and the run identifier.
package runtime
