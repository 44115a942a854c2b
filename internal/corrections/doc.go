// Package corrections implements the read-modify-write cycle that overwrites
// one folder's catalog mapping inside the remote metainfo.json document: fetch
// through the cache, replace the entry, upload, repopulate the cache.
package corrections
