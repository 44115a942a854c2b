// Package metastore models the metainfo.json metadata document kept alongside
// media folders on the remote store, and the process-wide cache of parsed
// documents keyed by storage root path.
package metastore
