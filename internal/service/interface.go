package service

import (
	"context"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	Ready() bool
	ListConcerts(ctx context.Context) (*model.ConcertListResponse, error)
	GetConcert(ctx context.Context, id string) (*model.ConcertDetailResponse, error)
	GetSetlist(ctx context.Context, id string) (*model.SetlistResponse, error)
	ListTours(ctx context.Context) (*model.TourListResponse, error)
	ListVenues(ctx context.Context) (*model.VenueListResponse, error)
	IntegrityReport(ctx context.Context) (*model.IntegrityResponse, error)
}
