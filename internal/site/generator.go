package site

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
)

const (
	// DefaultFileName is the page written into the output directory.
	DefaultFileName = "index.html"
	// ContentType is attached to every stored page.
	ContentType = "text/html; charset=utf-8"
)

// Output describes a written page.
type Output struct {
	Path string
	Body []byte
}

// Generator renders pages and hands them to a blob store.
type Generator struct {
	store    checklist.BlobStore
	fileName string
	clock    checklist.Clock
	logger   *zap.Logger
}

// NewGenerator wires a Generator. A nil clock leaves the footer timestamp out.
func NewGenerator(store checklist.BlobStore, fileName string, clock checklist.Clock, logger *zap.Logger) (*Generator, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if fileName == "" {
		fileName = DefaultFileName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		store:    store,
		fileName: fileName,
		clock:    clock,
		logger:   logger.Named("site"),
	}, nil
}

// Generate renders page and writes it, returning the written path and body.
// Write errors propagate unchanged in kind.
func (g *Generator) Generate(ctx context.Context, page Page) (Output, error) {
	if g.clock != nil && page.GeneratedAt.IsZero() {
		page.GeneratedAt = g.clock.Now()
	}
	body, err := Render(page)
	if err != nil {
		return Output{}, err
	}
	path, err := g.store.PutObject(ctx, g.fileName, ContentType, bytes.NewReader(body))
	if err != nil {
		return Output{}, fmt.Errorf("write site: %w", err)
	}
	g.logger.Info("site written",
		zap.String("path", path),
		zap.Int("species", len(page.Species)),
		zap.Int("bytes", len(body)),
	)
	return Output{Path: path, Body: body}, nil
}
