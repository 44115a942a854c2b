package metastore

import (
	"encoding/json"

	"mediamend/internal/services"
)

// DocumentName is the sidecar file holding folder metadata at a storage root.
const DocumentName = "metainfo.json"

// FolderEntry is one folder's worth of catalog metadata. TMDBID is treated
// opaquely: the catalog may hand out integer or string identifiers and both
// round-trip unmodified.
type FolderEntry struct {
	TMDBID      any     `json:"tmdb_id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	MediaType   string  `json:"media_type"`
	LastUpdated int64   `json:"last_updated"`
	Failed      bool    `json:"failed"`
}

// Document is the full metainfo.json object for one storage root.
type Document struct {
	Folders map[string]FolderEntry `json:"folders"`
}

// NewDocument returns an empty document with an initialized folder map.
func NewDocument() *Document {
	return &Document{Folders: make(map[string]FolderEntry)}
}

// Parse decodes a metadata document from its serialized form.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, services.Wrap(services.ErrParse, "metastore", "parse", DocumentName, err)
	}
	if doc.Folders == nil {
		doc.Folders = make(map[string]FolderEntry)
	}
	return doc, nil
}

// Encode serializes the document as pretty-printed UTF-8 JSON, the shape the
// remote sidecar is stored in.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "metastore", "encode", DocumentName, err)
	}
	return data, nil
}

// Replace overwrites the entry for folder wholesale. Partial merges are
// deliberately unsupported; a correction always supplies the full entry.
func (d *Document) Replace(folder string, entry FolderEntry) {
	if d.Folders == nil {
		d.Folders = make(map[string]FolderEntry)
	}
	d.Folders[folder] = entry
}
