package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultCodes is the catalog used when no catalog file is configured.
func DefaultCodes() []entity.DiscountCode {
	return []entity.DiscountCode{
		{Code: "SAVE10", Kind: enum.DiscountKindPercentage, Value: decimal.NewFromInt(10), Description: "10% off"},
		{Code: "FLAT5", Kind: enum.DiscountKindFixed, Value: decimal.NewFromInt(5), Description: "5 off"},
		{Code: "VIP20", Kind: enum.DiscountKindPercentage, Value: decimal.NewFromInt(20), Description: "VIP 20% off"},
	}
}

// Catalog is the read-mostly set of discount codes.
type Catalog struct {
	mu    sync.RWMutex
	codes map[string]entity.DiscountCode
}

// NewCatalog creates a catalog holding the given codes.
func NewCatalog(codes ...entity.DiscountCode) *Catalog {
	c := &Catalog{}
	c.Replace(codes)
	return c
}

// Lookup matches the code exactly.
func (c *Catalog) Lookup(code string) (entity.DiscountCode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dc, ok := c.codes[code]
	return dc, ok
}

// List returns the codes sorted by code.
func (c *Catalog) List() []entity.DiscountCode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.DiscountCode, 0, len(c.codes))
	for _, dc := range c.codes {
		out = append(out, dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Replace swaps the whole catalog.
func (c *Catalog) Replace(codes []entity.DiscountCode) {
	m := make(map[string]entity.DiscountCode, len(codes))
	for _, dc := range codes {
		m[dc.Code] = dc
	}
	c.mu.Lock()
	c.codes = m
	c.mu.Unlock()
}

type catalogFile struct {
	Codes []entity.DiscountCode `yaml:"codes"`
}

// LoadCatalogFile reads a YAML catalog:
//
//	codes:
//	  - code: SAVE10
//	    kind: percentage
//	    value: 10
func LoadCatalogFile(path string) ([]entity.DiscountCode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read discount catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse discount catalog %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Codes))
	for i, dc := range f.Codes {
		dc.Code = strings.TrimSpace(dc.Code)
		if dc.Code == "" {
			return nil, fmt.Errorf("discount catalog %s: entry %d has no code", path, i)
		}
		if seen[dc.Code] {
			return nil, fmt.Errorf("discount catalog %s: duplicate code %q", path, dc.Code)
		}
		if dc.Value.IsNegative() {
			return nil, fmt.Errorf("discount catalog %s: code %q has a negative value", path, dc.Code)
		}
		seen[dc.Code] = true
		f.Codes[i] = dc
	}
	return f.Codes, nil
}

// Watch reloads the catalog whenever path changes until ctx is done.
// A file that fails to parse leaves the previous catalog in place.
func (c *Catalog) Watch(ctx context.Context, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				codes, err := LoadCatalogFile(path)
				if err != nil {
					logger.Warn("discount catalog reload failed", "path", path, "error", err)
					continue
				}
				c.Replace(codes)
				logger.Info("discount catalog reloaded", "path", path, "codes", len(codes))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("discount catalog watcher error", "error", err)
			}
		}
	}()
	return nil
}
