package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
	"github.com/JakeFAU/birdseye/internal/metrics"
	"github.com/JakeFAU/birdseye/internal/site"
)

// EBird is the subset of the eBird client the pipeline drives.
type EBird interface {
	Taxonomy(ctx context.Context) (checklist.Taxonomy, error)
	Checklist(ctx context.Context, id string) (checklist.Checklist, error)
	HotspotName(ctx context.Context, locID string) (string, bool)
}

// PhotoResolver finds an illustrative photo for a species common name.
type PhotoResolver interface {
	PhotoURL(ctx context.Context, name string) (string, bool)
}

// Generator renders and writes the page.
type Generator interface {
	Generate(ctx context.Context, page site.Page) (site.Output, error)
}

// Deps lists the pipeline collaborators. Photos, Mirror and Publisher are
// optional.
type Deps struct {
	EBird     EBird
	Photos    PhotoResolver
	Site      Generator
	Mirror    checklist.BlobStore
	Publisher checklist.Publisher
	Hasher    checklist.Hasher
	Clock     checklist.Clock
	IDs       checklist.IDGenerator
	Logger    *zap.Logger

	// Title heads the generated page.
	Title string
	// MirrorName is the object name used for the mirror copy.
	MirrorName string
}

// Pipeline turns a checklist URL into a generated page.
type Pipeline struct {
	ebird      EBird
	photos     PhotoResolver
	site       Generator
	mirror     checklist.BlobStore
	publisher  checklist.Publisher
	hasher     checklist.Hasher
	clock      checklist.Clock
	ids        checklist.IDGenerator
	logger     *zap.Logger
	title      string
	mirrorName string
}

// Result reports what a run produced.
type Result struct {
	RunID        string
	ChecklistID  string
	ChecklistURL string
	Summary      checklist.Summary
	Path         string
	ContentHash  string
	MirrorURI    string
	MessageID    string
}

// Event is the payload announced after a successful run.
type Event struct {
	RunID        string    `json:"run_id"`
	ChecklistID  string    `json:"checklist_id"`
	ChecklistURL string    `json:"checklist_url"`
	Location     string    `json:"location"`
	Date         string    `json:"date"`
	SpeciesCount int       `json:"species_count"`
	Path         string    `json:"path"`
	MirrorURI    string    `json:"mirror_uri,omitempty"`
	ContentHash  string    `json:"content_hash"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewPipeline validates deps and builds a Pipeline.
func NewPipeline(deps Deps) (*Pipeline, error) {
	switch {
	case deps.EBird == nil:
		return nil, errors.New("ebird client is required")
	case deps.Site == nil:
		return nil, errors.New("site generator is required")
	case deps.Hasher == nil:
		return nil, errors.New("hasher is required")
	case deps.Clock == nil:
		return nil, errors.New("clock is required")
	case deps.IDs == nil:
		return nil, errors.New("id generator is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mirrorName := deps.MirrorName
	if mirrorName == "" {
		mirrorName = site.DefaultFileName
	}
	return &Pipeline{
		ebird:      deps.EBird,
		photos:     deps.Photos,
		site:       deps.Site,
		mirror:     deps.Mirror,
		publisher:  deps.Publisher,
		hasher:     deps.Hasher,
		clock:      deps.Clock,
		ids:        deps.IDs,
		logger:     logger,
		title:      deps.Title,
		mirrorName: mirrorName,
	}, nil
}

// Run extracts the checklist ID, resolves names, location and photos,
// writes the page and then mirrors and announces it when configured.
// Invalid input fails before any network call.
func (p *Pipeline) Run(ctx context.Context, checklistURL string) (Result, error) {
	runID, err := p.ids.NewID()
	if err != nil {
		return Result{}, fmt.Errorf("run id: %w", err)
	}
	logger := p.logger.With(zap.String("run_id", runID))

	result, err := p.run(ctx, logger, checklistURL)
	result.RunID = runID
	if err != nil {
		metrics.ObserveGeneration(metrics.GenerationFailed, -1)
		logger.Debug("site generation failed", zap.Error(err))
		return result, err
	}
	metrics.ObserveGeneration(metrics.GenerationSucceeded, len(result.Summary.Species))

	if p.publisher != nil {
		event := Event{
			RunID:        runID,
			ChecklistID:  result.ChecklistID,
			ChecklistURL: result.ChecklistURL,
			Location:     result.Summary.Location,
			Date:         result.Summary.Date,
			SpeciesCount: len(result.Summary.Species),
			Path:         result.Path,
			MirrorURI:    result.MirrorURI,
			ContentHash:  result.ContentHash,
			GeneratedAt:  p.clock.Now(),
		}
		msgID, pubErr := p.publisher.Publish(ctx, event)
		if pubErr != nil {
			logger.Warn("publish site event failed", zap.Error(pubErr))
		} else {
			result.MessageID = msgID
			logger.Info("site event published", zap.String("message_id", msgID))
		}
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logger *zap.Logger, checklistURL string) (Result, error) {
	id, err := checklist.ExtractID(checklistURL)
	if err != nil {
		return Result{}, err
	}
	result := Result{ChecklistID: id, ChecklistURL: checklistURL}
	logger = logger.With(zap.String("checklist_id", id))

	taxonomy, err := p.ebird.Taxonomy(ctx)
	if err != nil {
		return result, fmt.Errorf("load taxonomy: %w", err)
	}
	logger.Debug("taxonomy loaded", zap.Int("species", len(taxonomy)))

	cl, err := p.ebird.Checklist(ctx, id)
	if err != nil {
		return result, fmt.Errorf("load checklist: %w", err)
	}

	location := cl.LocName
	if location == "" && cl.LocID != "" {
		if name, ok := p.ebird.HotspotName(ctx, cl.LocID); ok {
			location = name
		}
	}

	var photos checklist.PhotoLookup
	if p.photos != nil {
		photos = p.photos.PhotoURL
	}
	result.Summary = checklist.Assemble(ctx, taxonomy, cl, location, photos)
	logger.Info("checklist assembled",
		zap.String("location", result.Summary.Location),
		zap.String("date", result.Summary.Date),
		zap.Int("species", len(result.Summary.Species)),
	)

	page := site.NewPage(result.Summary, checklistURL)
	if p.title != "" {
		page.Title = p.title
	}
	out, err := p.site.Generate(ctx, page)
	if err != nil {
		return result, fmt.Errorf("generate site: %w", err)
	}
	result.Path = out.Path

	result.ContentHash, err = p.hasher.Hash(out.Body)
	if err != nil {
		return result, fmt.Errorf("hash site: %w", err)
	}

	if p.mirror != nil {
		uri, err := p.mirror.PutObject(ctx, p.mirrorName, site.ContentType, bytes.NewReader(out.Body))
		if err != nil {
			return result, fmt.Errorf("mirror site: %w", err)
		}
		result.MirrorURI = uri
		logger.Info("site mirrored", zap.String("uri", uri))
	}
	return result, nil
}
