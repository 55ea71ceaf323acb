package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/database"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
	"github.com/wayhong0928/mayday-concert-map/internal/repository"
	"github.com/wayhong0928/mayday-concert-map/internal/service"
	"github.com/wayhong0928/mayday-concert-map/internal/stats"
)

func seq(v float64) *float64 {
	return &v
}

func setupIntegrationStack(t *testing.T) http.Handler {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := &config.Config{
		DB: config.DBConfig{
			Type: config.DBTypeMemory,
			Name: fmt.Sprintf("testdb_%d", rng.Int()),
		},
		Server: config.ServerConfig{CORSAllowOrigins: []string{"*"}},
		Map:    config.MapConfig{CenterLat: 23.5, CenterLon: 121, Zoom: 7},
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg.DB, "../../migrations"))

	repos := repository.NewRepositories(db, config.DBTypeMemory)
	require.NoError(t, repos.Venue.BulkInsertVenues(ctx, []model.Venue{{
		ID:          "taipei-dome",
		Name:        model.LocalizedName{Primary: "臺北大巨蛋", Alternate: "Taipei Dome"},
		City:        "Taipei",
		Coordinates: model.Coordinate{Lat: 25.0439, Lon: 121.5606},
	}}))
	require.NoError(t, repos.Tour.BulkInsertTours(ctx, []model.Tour{{
		ID:     "life-tour",
		Name:   model.LocalizedName{Primary: "人生無限公司", Alternate: "Life Tour"},
		Period: "2017-2019",
		StandardMainSet: []model.Song{
			{Seq: seq(1), Name: "人生無限公司"},
			{Seq: seq(2), Name: "派對動物"},
			{Seq: seq(3), Name: "知足"},
		},
	}}))
	require.NoError(t, repos.Concert.BulkInsertConcerts(ctx, []model.ConcertRaw{
		{
			ID:       "2019-05-18-taipei",
			TourRef:  "life-tour",
			VenueRef: "taipei-dome",
			Date:     "2019-05-18",
			MainSetModifications: &model.MainSetModifications{
				RemovedSeq: []float64{2},
				Added:      []model.Insertion{{AfterSeq: 3, Songs: []model.Song{{Name: "憨人"}, {Name: "溫柔"}}}},
			},
			Encores: []model.Encore{
				{Level: 1, Songs: []model.Song{{Name: "倔強"}}},
				{Level: 2, Songs: []model.Song{{Name: "擁抱"}}},
			},
		},
		{ID: "2020-01-01-nowhere", TourRef: "life-tour", VenueRef: "gone", Date: "2020-01-01"},
	}))

	svc := service.NewService(repos.Venue, repos.Tour, repos.Concert, nil)
	require.NoError(t, svc.Load(ctx))

	return NewRouter(svc, stats.NewCollector(db, cfg.DB), cfg, nil)
}

func TestAPI_Integration_Concerts(t *testing.T) {
	handler := setupIntegrationStack(t)

	req := httptest.NewRequest("GET", "/api/v1/concerts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp model.ConcertListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Concerts, 2)
	assert.Equal(t, "臺北大巨蛋", resp.Concerts[0].DisplayVenueName)
	assert.Equal(t, 25.0439, resp.Concerts[0].Coordinates.Lat)
	assert.Equal(t, "Unknown", resp.Concerts[1].City)
	assert.Equal(t, "Unknown Venue", resp.Concerts[1].DisplayVenueName)
}

func TestAPI_Integration_Setlist(t *testing.T) {
	handler := setupIntegrationStack(t)

	req := httptest.NewRequest("GET", "/api/v1/concerts/2019-05-18-taipei/setlist", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp model.SetlistResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	var got []string
	for _, item := range resp.Items {
		got = append(got, fmt.Sprintf("%g:%s", item.Seq, item.Name))
	}
	assert.Equal(t, []string{
		"1:人生無限公司",
		"3:知足",
		"3.1:憨人",
		"3.11:溫柔",
		"1010:倔強",
		"1020:擁抱",
	}, got)
	assert.Empty(t, resp.Warnings)
}

func TestAPI_Integration_NotFoundAndIntegrity(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/concerts/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/integrity", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var report model.IntegrityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Equal(t, 1, report.Count)
	assert.Equal(t, model.WarningMissingVenue, report.Warnings[0].Kind)
	assert.Equal(t, "gone", report.Warnings[0].VenueID)
}

func TestAPI_Integration_Stats(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp stats.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.Database.TotalRecords)
	assert.Equal(t, 1, resp.Catalog.Cities)
}
