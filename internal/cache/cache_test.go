package cache

import (
	"errors"
	"image"
	"testing"

	"github.com/varimat/varimat/internal/grid"
)

type countingDecoder struct {
	calls map[string]int
	fail  map[string]bool
}

func newCountingDecoder() *countingDecoder {
	return &countingDecoder{calls: make(map[string]int), fail: make(map[string]bool)}
}

func (d *countingDecoder) decode(path string) (image.Image, error) {
	d.calls[path]++
	if d.fail[path] {
		return nil, errors.New("broken file")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func TestGet_DecodesOncePerPath(t *testing.T) {
	d := newCountingDecoder()
	c := New(d.decode)
	cell := grid.Cell{Kind: grid.KindImage, Path: "/img/a.png"}

	first := c.Get(1, 1, cell)
	if first.Kind != EntryBitmap || first.Image == nil {
		t.Fatalf("Expected a bitmap entry, got kind=%d", first.Kind)
	}
	c.Get(1, 1, cell)
	c.Get(1, 1, cell)

	if d.calls["/img/a.png"] != 1 {
		t.Errorf("Decoder should run once per path, ran %d times", d.calls["/img/a.png"])
	}
}

func TestGet_PlaceholderNeverDecodes(t *testing.T) {
	d := newCountingDecoder()
	c := New(d.decode)
	cell := grid.Cell{Kind: grid.KindPlaceholder, Reason: "Missing"}

	e := c.Get(2, 3, cell)
	if e.Kind != EntryPlaceholder || e.Reason != "Missing" {
		t.Errorf("Expected a Missing placeholder, got kind=%d reason=%q", e.Kind, e.Reason)
	}
	if len(d.calls) != 0 {
		t.Errorf("Placeholders must never reach the decoder, saw calls: %v", d.calls)
	}
}

func TestGet_DecodeErrorCached(t *testing.T) {
	d := newCountingDecoder()
	d.fail["/img/bad.png"] = true
	c := New(d.decode)
	cell := grid.Cell{Kind: grid.KindImage, Path: "/img/bad.png"}

	e := c.Get(1, 1, cell)
	if e.Kind != EntryError {
		t.Fatalf("Expected an error entry, got kind=%d", e.Kind)
	}
	if e.Reason == "" {
		t.Error("Error entries should carry a reason")
	}

	c.Get(1, 1, cell)
	if d.calls["/img/bad.png"] != 1 {
		t.Errorf("A failed decode should be cached, decoder ran %d times", d.calls["/img/bad.png"])
	}
}

func TestEvictExcept_DropsOnlyDistantKeys(t *testing.T) {
	d := newCountingDecoder()
	c := New(d.decode)

	visible := grid.Cell{Kind: grid.KindImage, Path: "/img/visible.png"}
	distant := grid.Cell{Kind: grid.KindImage, Path: "/img/distant.png"}
	ph := grid.Cell{Kind: grid.KindPlaceholder, Reason: "Missing"}

	c.Get(1, 1, visible)
	c.Get(9, 9, distant)
	c.Get(2, 2, ph)

	keep := map[string]struct{}{
		KeyFor(1, 1, visible): {},
		KeyFor(2, 2, ph):      {},
	}
	c.EvictExcept(keep, "")

	if !c.Contains("/img/visible.png") {
		t.Error("Visible entries must survive eviction")
	}
	if !c.Contains(KeyFor(2, 2, ph)) {
		t.Error("Visible placeholder entries must survive eviction")
	}
	if c.Contains("/img/distant.png") {
		t.Error("Distant entries must be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 resident entries, got %d", c.Len())
	}
}

func TestEvictExcept_FullscreenExempt(t *testing.T) {
	d := newCountingDecoder()
	c := New(d.decode)

	fs := grid.Cell{Kind: grid.KindImage, Path: "/img/fullscreen.png"}
	c.Get(40, 7, fs)

	// Fullscreen cell scrolled far out of the visible set
	c.EvictExcept(map[string]struct{}{}, KeyFor(40, 7, fs))

	if !c.Contains("/img/fullscreen.png") {
		t.Error("The fullscreen bitmap must be exempt from eviction")
	}

	// Once fullscreen exits, the same frame evicts it
	c.EvictExcept(map[string]struct{}{}, "")
	if c.Len() != 0 {
		t.Errorf("Expected an empty cache after fullscreen exit, got %d entries", c.Len())
	}
}

func TestKeyFor_PathAndSynthetic(t *testing.T) {
	img := grid.Cell{Kind: grid.KindImage, Path: "/img/x.png"}
	if got := KeyFor(3, 4, img); got != "/img/x.png" {
		t.Errorf("Image cells key by path, got %q", got)
	}
	ph := grid.Cell{Kind: grid.KindPlaceholder, Reason: "Missing"}
	if got := KeyFor(3, 4, ph); got != "cell:3:4" {
		t.Errorf("Placeholder cells key by coordinate, got %q", got)
	}
}
