package layout

import (
	"fmt"
	"log"
	"sync"

	"github.com/jonathan/portfolio/internal/types"
)

// Document is a finished PDF.
type Document struct {
	FileName string
	Data     []byte
	Pages    int
}

// Generator renders résumés to PDF and allows at most one generation in flight
// per requester key. Requests for other keys proceed in parallel.
type Generator struct {
	mu       sync.Mutex
	inFlight map[string]struct{}

	// render is swapped out in tests.
	render func(Surface, *types.Resume) error
}

// NewGenerator returns a Generator.
func NewGenerator() *Generator {
	return &Generator{
		inFlight: make(map[string]struct{}),
		render:   Render,
	}
}

// Generate renders r for key. If key already has a generation running it returns
// ErrGenerationInProgress without doing anything. Drawing failures, including
// panics, are returned as *RenderError. The key is always released.
func (g *Generator) Generate(key string, r *types.Resume) (*Document, error) {
	if !g.acquire(key) {
		return nil, ErrGenerationInProgress
	}
	defer g.release(key)
	return g.generate(r)
}

// Busy reports whether key has a generation in flight.
func (g *Generator) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inFlight[key]
	return ok
}

func (g *Generator) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inFlight[key]; ok {
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

func (g *Generator) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
}

func (g *Generator) generate(r *types.Resume) (doc *Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[pdf] recovered panic during generation: %v", p)
			doc = nil
			err = &RenderError{Message: "generation panicked", Cause: fmt.Errorf("%v", p)}
		}
	}()

	if r == nil {
		return nil, &RenderError{Message: "no resume content"}
	}

	surface := NewPDFSurface()
	surface.SetTitle(r.Personal.Name + " Resume")
	if err := g.render(surface, r); err != nil {
		return nil, &RenderError{Message: "failed to lay out document", Cause: err}
	}
	data, err := surface.Bytes()
	if err != nil {
		return nil, &RenderError{Message: "failed to serialize document", Cause: err}
	}
	return &Document{
		FileName: FileName(r.Personal.Name),
		Data:     data,
		Pages:    surface.PageCount(),
	}, nil
}
