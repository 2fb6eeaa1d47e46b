package download

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/aricha/GoProcure/internal/config"
	"github.com/aricha/GoProcure/internal/gopro"
	ioutils "github.com/aricha/GoProcure/internal/io"
	"github.com/aricha/GoProcure/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// MediaCatalog is the slice of the GoPro catalog client the pipeline
// needs. *gopro.Catalog satisfies it; tests use a fake.
type MediaCatalog interface {
	ListPage(ctx context.Context, page, perPage int, includePhotos bool) ([]model.MediaItem, error)
	GetDownloadInfo(ctx context.Context, itemID string) (*model.DownloadInfo, error)
	GetHighlights(ctx context.Context, itemID string) (json.RawMessage, error)
}

// FileDownloader streams a remote payload to a local path.
// *http.Client (internal) satisfies it.
type FileDownloader interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error
}

// Result summarizes an acquisition run.
type Result struct {
	// Seen is the number of catalog items processed within the budget.
	Seen int

	// Skipped is the number of items whose payload already existed
	// locally, so no download was attempted.
	Skipped int

	// Errored is the number of items whose processing failed. Item
	// failures never abort the run; they are counted and reported.
	Errored int
}

// Manager coordinates the acquisition pipeline: paginated catalog
// retrieval, idempotent sidecar writes, and payload downloads.
type Manager struct {
	settings   *config.Settings
	catalog    MediaCatalog
	downloader FileDownloader
	onProgress func(ProgressEvent)

	seen    atomic.Int64
	skipped atomic.Int64
	errored atomic.Int64

	// claimed makes the exists-check-then-download a single decision
	// point per base name: under concurrency, two workers can never
	// both decide to fetch the same item.
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewManager creates a new acquisition Manager.
//
// onProgress receives human-readable progress events; pass nil to
// discard them. Item-level failures are reported through it rather than
// aborting the run.
func NewManager(settings *config.Settings, catalog MediaCatalog, downloader FileDownloader, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		catalog:    catalog,
		downloader: downloader,
		onProgress: onProgress,
		claimed:    make(map[string]struct{}),
	}
}

// Run drives the catalog page-by-page until a page comes back empty,
// a page comes back short, or the item budget is reached.
//
// A page-fetch failure is fatal and aborts the whole run; an individual
// item failure is logged via the progress callback and the run
// continues with the next item. Re-running against the same output
// directory performs no additional payload downloads for items already
// present.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return m.result(), fmt.Errorf("creating output directory: %w", err)
	}

	// The effective page size is what the API will actually serve; the
	// short-page exhaustion check below must use the same bound, or a
	// configured size above the API maximum makes every full page look
	// short and ends the run after one page.
	perPage := m.settings.PageSize
	if perPage > gopro.MaxPageSize {
		perPage = gopro.MaxPageSize
	}
	if perPage < 1 {
		perPage = 1
	}
	remaining := m.settings.MaxItems

	for page := 1; remaining > 0; page++ {
		items, err := m.catalog.ListPage(ctx, page, perPage, m.settings.IncludePhotos)
		if err != nil {
			// A failed page fetch aborts the batch; there is no
			// partial-page retry.
			return m.result(), err
		}
		if len(items) == 0 {
			break
		}

		if len(items) > remaining {
			items = items[:remaining]
		}
		remaining -= len(items)

		m.processPage(ctx, items)

		if err := ctx.Err(); err != nil {
			return m.result(), err
		}

		// A short page means the remote is exhausted.
		if len(items) < perPage {
			break
		}
	}

	res := m.result()
	if res.Skipped > 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipped downloading %d existing items", res.Skipped),
			Level:   LevelInfo,
		})
	}
	return res, nil
}

// processPage handles one page of catalog items with bounded
// concurrency. Item failures are contained here.
func (m *Manager) processPage(ctx context.Context, items []model.MediaItem) {
	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range items {
		item := items[i]
		g.Go(func() error {
			m.seen.Add(1)
			if err := m.processItem(ctx, item); err != nil {
				m.errored.Add(1)
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Error processing %s: %v", item.BaseName(), err),
					Level:   LevelError,
				})
			}
			return nil // one item must not sink the batch
		})
	}

	g.Wait()
}

// processItem materializes one catalog item: highlights sidecar,
// metadata sidecar, then the payload (and GPMF sidecar if requested).
// Every step is idempotent against a previous run's leftovers.
func (m *Manager) processItem(ctx context.Context, item model.MediaItem) error {
	baseName := item.BaseName()
	extension := item.Extension()

	if !m.claim(baseName) {
		// Another worker in this run already owns this base name.
		m.skipped.Add(1)
		return nil
	}

	if item.HasMoments() {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Found %d HiLight tags in %s", item.MomentsCount, baseName),
			Level:   LevelVerbose,
		})
		if err := m.saveHighlights(ctx, item, baseName); err != nil {
			return fmt.Errorf("saving highlights: %w", err)
		}
	}

	if err := m.saveMetadata(ctx, item, baseName); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}

	mediaPath := model.MediaFilePath(m.settings.OutputDir, baseName, extension)
	if _, err := os.Stat(mediaPath); err == nil {
		// Presence of the payload is the sole completion marker; never
		// re-fetch, even after a crashed partial write.
		m.skipped.Add(1)
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(mediaPath)),
			Level:   LevelVerbose,
		})
		return nil
	}

	info, err := m.catalog.GetDownloadInfo(ctx, item.ID)
	if err != nil {
		return err
	}

	if err := m.downloadFile(ctx, info.FileURL, mediaPath); err != nil {
		return fmt.Errorf("downloading payload: %w", err)
	}

	if m.settings.DownloadGPMF {
		if gpmfURL := info.GPMFURL(); gpmfURL != "" {
			gpmfPath := model.GPMFSidecarPath(m.settings.OutputDir, baseName, extension)
			if err := m.downloadFile(ctx, gpmfURL, gpmfPath); err != nil {
				return fmt.Errorf("downloading GPMF sidecar: %w", err)
			}
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded: %s", filepath.Base(mediaPath)),
		Level:   LevelSuccess,
	})
	return nil
}

// saveHighlights fetches and writes the highlights sidecar, unless it
// already exists. An existing sidecar means no network call is made.
func (m *Manager) saveHighlights(ctx context.Context, item model.MediaItem, baseName string) error {
	path := model.HighlightsSidecarPath(m.settings.OutputDir, baseName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	raw, err := m.catalog.GetHighlights(ctx, item.ID)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Persist verbatim when the payload isn't valid JSON; the
		// sidecar is opaque anyway.
		pretty.Write(raw)
	}

	_, err = ioutils.WriteFileIfAbsent(ctx, path, pretty.Bytes())
	return err
}

// saveMetadata writes the full catalog record as a pretty-printed
// sidecar. Existing sidecars are never rewritten.
func (m *Manager) saveMetadata(ctx context.Context, item model.MediaItem, baseName string) error {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return err
	}

	path := model.MetadataSidecarPath(m.settings.OutputDir, baseName)
	_, err = ioutils.WriteFileIfAbsent(ctx, path, data)
	return err
}

// downloadFile streams a payload to disk, reporting whole-percent
// progress when the remote advertises a content length.
func (m *Manager) downloadFile(ctx context.Context, url, destPath string) error {
	name := filepath.Base(destPath)
	lastPercent := -1

	return m.downloader.DownloadFile(ctx, url, destPath, func(written, total int64) {
		if total <= 0 {
			return
		}
		percent := int(100 * written / total)
		if percent != lastPercent {
			lastPercent = percent
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Downloading %s: %d%%", name, percent),
				Level:   LevelVerbose,
			})
		}
	})
}

// claim reserves a base name for the current worker. Returns false when
// the name was already claimed during this run.
func (m *Manager) claim(baseName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.claimed[baseName]; ok {
		return false
	}
	m.claimed[baseName] = struct{}{}
	return true
}

// Snapshot returns the running counts of the current run. Safe to call
// from another goroutine while Run is in flight; the TUI polls it.
func (m *Manager) Snapshot() Result {
	return m.result()
}

func (m *Manager) result() Result {
	return Result{
		Seen:    int(m.seen.Load()),
		Skipped: int(m.skipped.Load()),
		Errored: int(m.errored.Load()),
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
