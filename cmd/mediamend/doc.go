// Package main hosts the mediamend CLI entrypoint and command graph.
//
// The Cobra-based command tree covers configuration scaffolding, session
// token management for the correction API, and direct inspection and repair
// of the remote metadata document. It centralizes configuration resolution
// and storage client wiring so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
