package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wayhong0928/mayday-concert-map/internal/engine"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
	"github.com/wayhong0928/mayday-concert-map/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrCatalogNotLoaded is returned by queries issued before a successful Load
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// catalog is an immutable snapshot of hydrated reference data
type catalog struct {
	venues       []model.Venue
	tours        []model.Tour
	tourIndex    map[string]model.Tour
	concerts     []model.Concert
	concertIndex map[string]int
	warnings     []model.IntegrityWarning
}

// Service provides business logic for the API
type Service struct {
	venueRepo   repository.VenueRepository
	tourRepo    repository.TourRepository
	concertRepo repository.ConcertRepository
	logger      *zap.Logger

	mu      sync.RWMutex
	catalog *catalog
}

// NewService creates a new service instance
func NewService(
	venueRepo repository.VenueRepository,
	tourRepo repository.TourRepository,
	concertRepo repository.ConcertRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		venueRepo:   venueRepo,
		tourRepo:    tourRepo,
		concertRepo: concertRepo,
		logger:      logger,
	}
}

// Load fetches venues, tours and concerts concurrently, hydrates the concerts
// and installs the result as the current catalog. All three fetches must succeed.
func (s *Service) Load(ctx context.Context) error {
	var (
		venues   map[string]model.Venue
		tours    []model.Tour
		concerts []model.ConcertRaw
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if venues, err = s.venueRepo.ListVenues(gctx); err != nil {
			return fmt.Errorf("failed to load venues: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tours, err = s.tourRepo.ListTours(gctx); err != nil {
			return fmt.Errorf("failed to load tours: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if concerts, err = s.concertRepo.ListConcerts(gctx); err != nil {
			return fmt.Errorf("failed to load concerts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	cat := buildCatalog(venues, tours, concerts, s.logger)
	for _, w := range cat.warnings {
		s.logger.Warn("Integrity warning",
			zap.String("kind", string(w.Kind)),
			zap.String("concert_id", w.ConcertID),
			zap.String("message", w.Message),
		)
	}

	s.mu.Lock()
	s.catalog = cat
	s.mu.Unlock()

	s.logger.Info("Catalog loaded",
		zap.Int("venues", len(cat.venues)),
		zap.Int("tours", len(cat.tours)),
		zap.Int("concerts", len(cat.concerts)),
		zap.Int("warnings", len(cat.warnings)),
	)
	return nil
}

func buildCatalog(venues map[string]model.Venue, tours []model.Tour, concerts []model.ConcertRaw, logger *zap.Logger) *catalog {
	hydrated := engine.Hydrate(concerts, venues, logger)

	concertIndex := make(map[string]int, len(hydrated))
	for i, c := range hydrated {
		if _, exists := concertIndex[c.ID]; !exists {
			concertIndex[c.ID] = i
		}
	}

	venueList := make([]model.Venue, 0, len(venues))
	for _, v := range venues {
		venueList = append(venueList, v)
	}
	sort.Slice(venueList, func(i, j int) bool { return venueList[i].ID < venueList[j].ID })

	if tours == nil {
		tours = []model.Tour{}
	}

	return &catalog{
		venues:       venueList,
		tours:        tours,
		tourIndex:    engine.IndexTours(tours),
		concerts:     hydrated,
		concertIndex: concertIndex,
		warnings:     engine.CheckIntegrity(venues, tours, concerts),
	}
}

// Ready reports whether a catalog has been loaded
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog != nil
}

func (s *Service) current() (*catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, ErrCatalogNotLoaded
	}
	return s.catalog, nil
}

// ListConcerts returns every hydrated concert in source order
func (s *Service) ListConcerts(ctx context.Context) (*model.ConcertListResponse, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	return &model.ConcertListResponse{Concerts: cat.concerts, Count: len(cat.concerts)}, nil
}

// GetConcert returns a concert with its tour summary and reconstructed setlist.
// It returns nil, nil when the concert does not exist.
func (s *Service) GetConcert(ctx context.Context, id string) (*model.ConcertDetailResponse, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	concert, ok := cat.concert(id)
	if !ok {
		return nil, nil
	}

	resp := &model.ConcertDetailResponse{
		Concert: concert,
		Setlist: []model.SetlistItem{},
	}
	if tour, found := cat.tourIndex[concert.TourRef]; found {
		resp.Tour = &model.TourSummary{ID: tour.ID, Name: tour.Name, Period: tour.Period}
		resp.Setlist = engine.Reconstruct(tour, concert)
	}
	return resp, nil
}

// GetSetlist reconstructs the setlist of a concert along with any problems
// found in its modifications. A concert whose tour is missing gets an empty
// setlist. It returns nil, nil when the concert does not exist.
func (s *Service) GetSetlist(ctx context.Context, id string) (*model.SetlistResponse, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	concert, ok := cat.concert(id)
	if !ok {
		return nil, nil
	}

	tour, found := cat.tourIndex[concert.TourRef]
	if !found {
		return &model.SetlistResponse{
			ConcertID: concert.ID,
			Items:     []model.SetlistItem{},
			Warnings: []model.IntegrityWarning{{
				Kind:      model.WarningMissingTour,
				ConcertID: concert.ID,
				TourID:    concert.TourRef,
				Message:   fmt.Sprintf("tour %q not found", concert.TourRef),
			}},
		}, nil
	}

	items, warnings := engine.ReconstructWithReport(tour, concert)
	return &model.SetlistResponse{
		ConcertID: concert.ID,
		TourID:    tour.ID,
		Items:     items,
		Warnings:  warnings,
	}, nil
}

// ListTours returns tours in source order
func (s *Service) ListTours(ctx context.Context) (*model.TourListResponse, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	return &model.TourListResponse{Tours: cat.tours, Count: len(cat.tours)}, nil
}

// ListVenues returns venues sorted by id
func (s *Service) ListVenues(ctx context.Context) (*model.VenueListResponse, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	return &model.VenueListResponse{Venues: cat.venues, Count: len(cat.venues)}, nil
}

// IntegrityReport returns the warnings collected when the catalog was loaded
func (s *Service) IntegrityReport(ctx context.Context) (*model.IntegrityResponse, error) {
	cat, err := s.current()
	if err != nil {
		return nil, err
	}
	warnings := cat.warnings
	if warnings == nil {
		warnings = []model.IntegrityWarning{}
	}
	return &model.IntegrityResponse{Warnings: warnings, Count: len(warnings)}, nil
}

func (c *catalog) concert(id string) (model.Concert, bool) {
	i, ok := c.concertIndex[id]
	if !ok {
		return model.Concert{}, false
	}
	return c.concerts[i], true
}
