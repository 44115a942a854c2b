// Package alist implements the client for the AList-compatible file store
// that hosts the media library and its metainfo.json sidecar. The client owns
// the API token and transparently re-authenticates once on a 401 when static
// credentials are configured.
package alist
