// Package server exposes the mediamend HTTP API and owns the daemon
// lifecycle: the flock-guarded single instance, the listener, and the
// periodic session purge.
package server
