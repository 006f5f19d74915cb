// Package pager provides fixed-size block storage over a single backing
// file. Pages are addressed by a zero-based page number; page 0 is the
// header page and never holds a tree node. Allocation is monotonic, there
// is no free list, and nothing is persisted until Flush.
package pager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// PageSize is the unit of I/O and of tree-node storage.
const PageSize = 4096

// ErrStorage marks fatal I/O conditions. Local file failures are not
// transient, so nothing here retries.
var ErrStorage = errors.New("storage unavailable")

// Pager owns the backing file. Pages handed out via GetPage are live
// buffers and count as dirty until the next Flush; clean pages written
// out by Flush are kept in a lossy read cache.
type Pager struct {
	file     *os.File
	path     string
	numPages uint32
	dirty    map[uint32][]byte
	cache    *pageCache
}

// Open opens or creates the backing file. A file whose size is not a
// whole number of pages is corrupt. cachePages <= 0 selects
// DefaultCachePages.
func Open(path string, cachePages int) (*Pager, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorage, path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrStorage, path, err)
	}
	size := stat.Size()
	if size%PageSize != 0 {
		file.Close()
		return nil, fmt.Errorf("%w: %s is not a whole number of pages (%d bytes)", ErrStorage, path, size)
	}
	cache, err := newPageCache(cachePages)
	if err != nil {
		file.Close()
		return nil, err
	}
	slog.Debug("pager opened", "path", path, "pages", size/PageSize)
	return &Pager{
		file:     file,
		path:     path,
		numPages: uint32(size / PageSize),
		dirty:    make(map[uint32][]byte),
		cache:    cache,
	}, nil
}

// GetPage returns the live, mutable buffer for page n, loading it from
// the cache or the file on first access. Accessing a page past the end
// of the file extends the file with a zeroed page. The buffer stays
// valid (and dirty) until the next Flush.
func (p *Pager) GetPage(n uint32) ([]byte, error) {
	if p.file == nil {
		return nil, fmt.Errorf("%w: pager is closed", ErrStorage)
	}
	if buf, ok := p.dirty[n]; ok {
		return buf, nil
	}
	page := make([]byte, PageSize)
	if cached, ok := p.cache.get(n); ok {
		// The caller may mutate the buffer, so the page leaves the
		// clean cache and rejoins the dirty set.
		copy(page, cached)
		p.cache.del(n)
	} else if n < p.numPages {
		if _, err := p.file.ReadAt(page, int64(n)*PageSize); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: read page %d: %v", ErrStorage, n, err)
		}
	} else {
		p.numPages = n + 1
	}
	p.dirty[n] = page
	return page, nil
}

// AllocatePage hands out the next page number, backed by a zeroed
// buffer. Pages are never reclaimed.
func (p *Pager) AllocatePage() uint32 {
	n := p.numPages
	p.numPages++
	p.dirty[n] = make([]byte, PageSize)
	return n
}

// NumPages reports how many pages the store currently addresses,
// flushed or not.
func (p *Pager) NumPages() uint32 { return p.numPages }

// Flush writes every dirty page and syncs the file. Flushed pages are
// demoted into the clean-page cache.
func (p *Pager) Flush() error {
	if p.file == nil {
		return fmt.Errorf("%w: pager is closed", ErrStorage)
	}
	for n, buf := range p.dirty {
		if _, err := p.file.WriteAt(buf, int64(n)*PageSize); err != nil {
			return fmt.Errorf("%w: write page %d: %v", ErrStorage, n, err)
		}
		p.cache.put(n, buf)
		delete(p.dirty, n)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrStorage, p.path, err)
	}
	slog.Debug("pager flushed", "path", p.path, "pages", p.numPages)
	return nil
}

// Close flushes and releases the file. Calling Close twice is a no-op.
func (p *Pager) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.Flush()
	if cerr := p.file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: close %s: %v", ErrStorage, p.path, cerr)
	}
	p.file = nil
	p.cache.close()
	return err
}
