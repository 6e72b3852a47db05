// Package utils provides shared utility functions.
//
// These utilities are used across multiple packages and include:
//   - Slug generation for theme folders and database names
//   - Recursive copy and cleanup of directory trees
//   - Input validation and terminal detection
package utils
