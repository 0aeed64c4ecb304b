package pdfstract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/AKSarav/pdfstract/backend"
)

// LibraryInfo describes one registered extraction library.
type LibraryInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type registryEntry struct {
	ext      backend.Extractor
	probeErr error
}

// Registry maps library identifiers to extraction backends. Backends are
// registered up front and probed once; after construction the registry is
// read-only, so lookups from concurrent harness workers need no locking
// beyond the RWMutex guarding registration.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*registryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register adds an extractor under its own name, replacing any previous
// registration. If the extractor implements [backend.Prober] it is probed
// immediately; a failed probe keeps the library listed but marks it
// unavailable so dispatch can reject it with the probe's error message.
func (r *Registry) Register(ext backend.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := ext.Name()
	entry := &registryEntry{ext: ext}
	if p, ok := ext.(backend.Prober); ok {
		entry.probeErr = p.Available()
	}
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
}

// Lookup returns the backend registered under name. Unknown names report
// the set of registered libraries; unavailable backends report their probe
// error. Both reject before any work starts.
func (r *Registry) Lookup(name string) (backend.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)",
			ErrUnknownLibrary, name, strings.Join(r.order, ", "))
	}
	if entry.probeErr != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrLibraryUnavailable, name, entry.probeErr)
	}
	return entry.ext, nil
}

// Names returns the registered identifiers in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// List describes every registered library with its availability, the shape
// the HTTP API and CLI expose for discovery.
func (r *Registry) List() []LibraryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]LibraryInfo, 0, len(r.order))
	for _, name := range r.order {
		entry := r.entries[name]
		info := LibraryInfo{Name: name, Available: entry.probeErr == nil}
		if entry.probeErr != nil {
			info.Error = entry.probeErr.Error()
		}
		infos = append(infos, info)
	}
	return infos
}

// DefaultRegistry registers every backend this module wraps: the built-in
// pure-Go extractor plus ledongthuc/pdf, rsc.io/pdf, MuPDF, pdfcpu, and
// Tesseract OCR. Backends with missing native dependencies stay listed as
// unavailable.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(backend.NewNative())
	r.Register(backend.NewLedongthuc())
	r.Register(backend.NewRscPDF())
	r.Register(backend.NewFitz())
	r.Register(backend.NewPDFCPU())
	r.Register(backend.NewTesseract())
	return r
}
