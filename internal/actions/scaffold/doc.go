// Package scaffold provisions a new WordPress project: it fetches the platform
// release, writes its configuration, installs the starter theme, creates the
// database and builds the theme assets.
//
// The work is a fixed sequence of pipeline steps. Each step declares the
// fields it reads and the fields it provides, so a step never runs against
// an answer that was not collected.
package scaffold
