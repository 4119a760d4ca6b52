// Package cache memoizes decoded bitmaps for the cells currently worth
// drawing. It is confined to the UI goroutine: no locks, bounded each frame
// by eviction down to the visible set.
package cache

import (
	"fmt"
	"image"

	"github.com/varimat/varimat/internal/grid"
	"github.com/varimat/varimat/internal/imaging"
	"github.com/varimat/varimat/internal/logging"
)

// EntryKind tags what a cache entry holds.
type EntryKind uint8

const (
	EntryBitmap EntryKind = iota
	EntryPlaceholder
	EntryError
)

// Entry is the drawable state of one cell.
type Entry struct {
	Kind   EntryKind
	Image  image.Image // EntryBitmap only
	Reason string      // EntryPlaceholder and EntryError
}

// DecodeFunc loads the image behind a path. Injected so tests can count and
// fail decodes without touching the filesystem.
type DecodeFunc func(path string) (image.Image, error)

// Cache maps cell keys to entries. A failed decode is cached too, so the
// decoder is hit at most once per path.
type Cache struct {
	decode  DecodeFunc
	entries map[string]Entry
}

// New returns an empty cache. A nil decode falls back to the standard image
// loader.
func New(decode DecodeFunc) *Cache {
	if decode == nil {
		decode = imaging.Load
	}
	return &Cache{decode: decode, entries: make(map[string]Entry)}
}

// KeyFor is the eviction identity of a cell: the image path when there is
// one, a synthetic coordinate key otherwise.
func KeyFor(row, col int, cell grid.Cell) string {
	if cell.Kind == grid.KindImage {
		return cell.Path
	}
	return fmt.Sprintf("cell:%d:%d", row, col)
}

// Get returns the entry for a data cell, decoding at most once per key.
// Placeholder cells never touch the decoder.
func (c *Cache) Get(row, col int, cell grid.Cell) Entry {
	key := KeyFor(row, col, cell)
	if e, ok := c.entries[key]; ok {
		return e
	}

	var e Entry
	switch cell.Kind {
	case grid.KindImage:
		img, err := c.decode(cell.Path)
		if err != nil {
			logging.Debug.Printf("decode %s: %v", cell.Path, err)
			e = Entry{Kind: EntryError, Reason: imaging.FailureReason(cell.Path, err)}
		} else {
			e = Entry{Kind: EntryBitmap, Image: img}
		}
	case grid.KindPlaceholder:
		e = Entry{Kind: EntryPlaceholder, Reason: cell.Reason}
	default:
		// Headers are drawn as text, nothing to cache.
		return Entry{Kind: EntryPlaceholder}
	}

	c.entries[key] = e
	return e
}

// EvictExcept drops every entry whose key is neither in keep nor the
// fullscreen bitmap. The renderer calls this once per frame after drawing.
func (c *Cache) EvictExcept(keep map[string]struct{}, fullscreenKey string) {
	for key := range c.entries {
		if key == fullscreenKey {
			continue
		}
		if _, ok := keep[key]; ok {
			continue
		}
		delete(c.entries, key)
	}
}

// Contains reports whether key is resident.
func (c *Cache) Contains(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Len is the number of resident entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
