package seeder

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/engine"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	venuesFile   = "venues"
	toursFile    = "tours"
	concertsFile = "concerts"
)

// Parser reads the concert reference data files
type Parser struct {
	dataDir   string
	batchSize int
}

// Dataset holds the three reference collections and the problems found while parsing them
type Dataset struct {
	Venues   map[string]model.Venue
	Tours    []model.Tour
	Concerts []model.ConcertRaw
	Warnings []model.IntegrityWarning
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	return &Parser{
		dataDir:   dataDir,
		batchSize: seederCfg.BatchSize,
	}
}

// BatchSize returns the configured insert batch size, defaulting to 500
func (p *Parser) BatchSize() int {
	if p.batchSize <= 0 {
		return 500
	}
	return p.batchSize
}

// ParseVenues parses venues.json, an object keyed by venue id.
// The key is the venue's identity: an "id" field that disagrees with it is
// overwritten and reported. A JSON array of venues is accepted as well.
func (p *Parser) ParseVenues() (map[string]model.Venue, []model.IntegrityWarning, error) {
	data, err := p.readFile(venuesFile)
	if err != nil {
		return nil, nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []model.Venue
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, nil, fmt.Errorf("failed to decode venues: %w", err)
		}
		venues := make(map[string]model.Venue, len(list))
		for _, v := range list {
			if v.ID == "" {
				continue
			}
			venues[v.ID] = v
		}
		return venues, nil, nil
	}

	var venues map[string]model.Venue
	if err := json.Unmarshal(trimmed, &venues); err != nil {
		return nil, nil, fmt.Errorf("failed to decode venues: %w", err)
	}
	if venues == nil {
		venues = make(map[string]model.Venue)
	}

	var warnings []model.IntegrityWarning
	for _, key := range sortedKeys(venues) {
		v := venues[key]
		if v.ID != "" && v.ID != key {
			warnings = append(warnings, model.IntegrityWarning{
				Kind:    model.WarningVenueIDMismatch,
				VenueID: key,
				Message: fmt.Sprintf("venue %q declares id %q; using the key", key, v.ID),
			})
		}
		v.ID = key
		venues[key] = v
	}
	return venues, warnings, nil
}

func sortedKeys(venues map[string]model.Venue) []string {
	keys := make([]string, 0, len(venues))
	for k := range venues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseTours parses tours.json, keeping file order
func (p *Parser) ParseTours() ([]model.Tour, error) {
	data, err := p.readFile(toursFile)
	if err != nil {
		return nil, err
	}

	var tours []model.Tour
	if err := json.Unmarshal(data, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode tours: %w", err)
	}
	return tours, nil
}

// ParseConcerts parses concerts.json, keeping file order
func (p *Parser) ParseConcerts() ([]model.ConcertRaw, error) {
	data, err := p.readFile(concertsFile)
	if err != nil {
		return nil, err
	}

	var concerts []model.ConcertRaw
	if err := json.Unmarshal(data, &concerts); err != nil {
		return nil, fmt.Errorf("failed to decode concerts: %w", err)
	}
	return concerts, nil
}

// LoadDataset parses all three files concurrently. Any failure fails the whole load.
func (p *Parser) LoadDataset(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		venues, warnings, err := p.ParseVenues()
		if err != nil {
			return err
		}
		ds.Venues = venues
		ds.Warnings = warnings
		return ctx.Err()
	})
	g.Go(func() error {
		tours, err := p.ParseTours()
		if err != nil {
			return err
		}
		ds.Tours = tours
		return ctx.Err()
	})
	g.Go(func() error {
		concerts, err := p.ParseConcerts()
		if err != nil {
			return err
		}
		ds.Concerts = concerts
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

// readFile returns the contents of <name>.json, preferring <name>.zip when present
func (p *Parser) readFile(name string) ([]byte, error) {
	zipPath := filepath.Join(p.dataDir, name+".zip")
	if _, err := os.Stat(zipPath); err == nil {
		return readFromZip(zipPath, name+".json")
	}

	filePath := filepath.Join(p.dataDir, name+".json")
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s.json: %w", name, err)
	}
	return data, nil
}

func readFromZip(zipPath, want string) ([]byte, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	var target *zip.File
	for _, f := range r.File {
		if filepath.Base(f.Name) == want {
			target = f
			break
		}
		if target == nil && strings.HasSuffix(f.Name, ".json") {
			target = f
		}
	}
	if target == nil {
		return nil, fmt.Errorf("no %s file found in %s", want, filepath.Base(zipPath))
	}

	rc, err := target.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file in zip: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", target.Name, err)
	}
	return data, nil
}

// VenueList flattens a venue map into a slice sorted by id
func VenueList(venues map[string]model.Venue) []model.Venue {
	list := make([]model.Venue, 0, len(venues))
	for _, v := range venues {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// CreateTourIndex creates a map of tours by id. The first tour wins on duplicate ids.
func CreateTourIndex(tours []model.Tour) map[string]model.Tour {
	return engine.IndexTours(tours)
}
