package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// FailureNotice is shown to the user when an export fails.
const FailureNotice = "Export failed. Some images may have CORS restrictions."

// Downloader delivers a finished artifact to the user.
type Downloader interface {
	Download(ctx context.Context, a Artifact) error
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// FileDownloader writes artifacts into Dir under their filename.
// The file appears only once it is complete.
type FileDownloader struct {
	Dir string
}

// Download implements [Downloader].
func (d FileDownloader) Download(_ context.Context, a Artifact) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+a.Filename+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, a.Filename)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", a.Filename, err)
	}
	return nil
}

// Path returns where f would be written.
func (d FileDownloader) Path(f Format) string {
	return filepath.Join(d.Dir, f.Filename())
}

// MemoryDownloader keeps artifacts in memory. It is safe for concurrent use.
type MemoryDownloader struct {
	mu        sync.Mutex
	artifacts []Artifact
}

// Download implements [Downloader].
func (d *MemoryDownloader) Download(_ context.Context, a Artifact) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.artifacts = append(d.artifacts, a)
	return nil
}

// Artifacts returns everything downloaded so far.
func (d *MemoryDownloader) Artifacts() []Artifact {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Artifact, len(d.artifacts))
	copy(out, d.artifacts)
	return out
}

// LogNotifier reports notices as log errors. A nil Logger means
// log.Default().
type LogNotifier struct {
	Logger *log.Logger
}

// Notify implements [Notifier].
func (n LogNotifier) Notify(_ context.Context, msg string) {
	l := n.Logger
	if l == nil {
		l = log.Default()
	}
	l.Error(msg)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(ctx context.Context, msg string)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, msg string) { f(ctx, msg) }

var (
	_ Downloader = FileDownloader{}
	_ Downloader = (*MemoryDownloader)(nil)
	_ Notifier   = LogNotifier{}
	_ Notifier   = NotifierFunc(nil)
)
