// Package git resolves release tags of remote Git repositories.
//
// It lists remote refs with go-git, without cloning, and picks the tag that
// names the latest release:
//   - ParseLatestTag picks the lexicographically last version-like tag
//   - ResolveConstraint picks the highest tag matching a semver constraint
//
// No git binary is required.
package git
