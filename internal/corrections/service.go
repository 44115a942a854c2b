package corrections

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mediamend/internal/logging"
	"mediamend/internal/metastore"
	"mediamend/internal/services"
	"mediamend/internal/services/alist"
)

const component = "corrections"

// StorageClient is the slice of the remote file client the orchestration
// needs. *alist.Client satisfies it.
type StorageClient interface {
	GetFile(ctx context.Context, path string) (*alist.FileInfo, error)
	UploadFile(ctx context.Context, path, content string) error
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Request carries one correction: the target folder and the catalog mapping
// that should replace its current entry. TMDBID accepts a number or a string.
type Request struct {
	Folder      string  `json:"folder"`
	TMDBID      any     `json:"tmdbId"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"posterPath"`
	ReleaseDate string  `json:"releaseDate"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"voteAverage"`
	MediaType   string  `json:"mediaType"`
}

// Validate checks the required fields before any network I/O happens.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Folder) == "" {
		return services.Wrap(services.ErrValidation, component, "apply", "folder is required", nil)
	}
	switch id := r.TMDBID.(type) {
	case nil:
		return services.Wrap(services.ErrValidation, component, "apply", "tmdbId is required", nil)
	case string:
		if strings.TrimSpace(id) == "" {
			return services.Wrap(services.ErrValidation, component, "apply", "tmdbId is required", nil)
		}
	}
	return nil
}

// Service orchestrates corrections against one configured storage root.
type Service struct {
	client   StorageClient
	cache    *metastore.Cache
	rootPath string
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a correction service. The cache is injected rather than
// ambient so its lifecycle is owned by the caller.
func NewService(client StorageClient, cache *metastore.Cache, rootPath string, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		cache:    cache,
		rootPath: rootPath,
		logger:   logging.NewComponentLogger(logger, component),
		now:      time.Now,
	}
}

// DocumentPath resolves the sidecar location under root, normalizing the root
// to exactly one trailing separator before the filename.
func DocumentPath(rootPath string) string {
	return strings.TrimRight(rootPath, "/") + "/" + metastore.DocumentName
}

// Document returns the metadata document for the configured root, reading
// through the cache and populating it on a miss.
func (s *Service) Document(ctx context.Context) (*metastore.Document, error) {
	if doc, ok := s.cache.Get(s.rootPath); ok {
		return doc, nil
	}

	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(s.rootPath, doc)
	return doc, nil
}

func (s *Service) fetchDocument(ctx context.Context) (*metastore.Document, error) {
	docPath := DocumentPath(s.rootPath)

	info, err := s.client.GetFile(ctx, docPath)
	if err != nil {
		return nil, err
	}
	if info == nil || strings.TrimSpace(info.RawURL) == "" {
		return nil, services.Wrap(services.ErrNotFound, component, "fetch", fmt.Sprintf("%s not found under %s", metastore.DocumentName, s.rootPath), nil)
	}

	body, err := s.client.Download(ctx, info.RawURL)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, services.Wrap(services.ErrNotFound, component, "fetch", fmt.Sprintf("%s is empty", docPath), nil)
	}

	return metastore.Parse(body)
}

// Apply performs one correction and returns the entry as written. Any step
// failure aborts the whole operation; the cache is only repopulated after a
// successful upload, and never by re-fetching the just-written document.
func (s *Service) Apply(ctx context.Context, req Request) (metastore.FolderEntry, error) {
	if err := req.Validate(); err != nil {
		return metastore.FolderEntry{}, err
	}

	current, err := s.Document(ctx)
	if err != nil {
		return metastore.FolderEntry{}, err
	}

	// Work on a copy so a failed upload leaves the cached document untouched.
	updated := metastore.NewDocument()
	for name, entry := range current.Folders {
		updated.Folders[name] = entry
	}

	entry := metastore.FolderEntry{
		TMDBID:      req.TMDBID,
		Title:       req.Title,
		PosterPath:  req.PosterPath,
		Overview:    req.Overview,
		ReleaseDate: req.ReleaseDate,
		VoteAverage: req.VoteAverage,
		MediaType:   req.MediaType,
		LastUpdated: s.now().UnixMilli(),
		Failed:      false,
	}
	updated.Replace(req.Folder, entry)

	encoded, err := updated.Encode()
	if err != nil {
		return metastore.FolderEntry{}, err
	}

	docPath := DocumentPath(s.rootPath)
	if err := s.client.UploadFile(ctx, docPath, string(encoded)); err != nil {
		return metastore.FolderEntry{}, err
	}

	s.cache.Invalidate(s.rootPath)
	s.cache.Set(s.rootPath, updated)

	s.logger.Info("correction applied",
		logging.String("folder", req.Folder),
		logging.Any("tmdb_id", req.TMDBID),
		logging.String("media_type", req.MediaType),
		logging.String("path", docPath))

	return entry, nil
}
