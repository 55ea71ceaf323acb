package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
)

// Tables lists the tables reported on, in display order
var Tables = []string{"venues", "tours", "concerts"}

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryStats   `json:"memory"`
	Database  DatabaseStats `json:"database"`
	Catalog   CatalogStats  `json:"catalog"`
	Runtime   RuntimeStats  `json:"runtime"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// CatalogStats summarizes the stored concert history
type CatalogStats struct {
	Cities       int    `json:"cities"`
	FirstConcert string `json:"first_concert,omitempty"`
	LastConcert  string `json:"last_concert,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// Collector reads table and process figures for the stats endpoint and CLI.
type Collector struct {
	db      *sqlx.DB
	config  config.DBConfig
	started time.Time
	mem     memCache
}

const memStatsTTL = 5 * time.Second

// memCache holds the last runtime.ReadMemStats result, which stops the world.
type memCache struct {
	mu    sync.Mutex
	value MemoryStats
	taken time.Time
}

func (m *memCache) get(now time.Time) MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.taken.IsZero() && now.Sub(m.taken) < memStatsTTL {
		return m.value
	}

	var rt runtime.MemStats
	runtime.ReadMemStats(&rt)
	m.value = MemoryStats{
		Alloc:      rt.Alloc,
		TotalAlloc: rt.TotalAlloc,
		Sys:        rt.Sys,
		NumGC:      rt.NumGC,
		HeapAlloc:  rt.HeapAlloc,
		HeapInuse:  rt.HeapInuse,
	}
	m.taken = now
	return m.value
}

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{db: db, config: cfg, started: time.Now()}
}

// Collect gathers memory, database, catalog and runtime statistics.
func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	now := time.Now()

	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := c.collectCatalogStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Timestamp: now,
		Memory:    c.mem.get(now),
		Database:  *dbStats,
		Catalog:   *catalog,
		Runtime: RuntimeStats{
			NumGoroutines: runtime.NumGoroutine(),
			NumCPU:        runtime.NumCPU(),
			UptimeSeconds: int64(now.Sub(c.started).Seconds()),
		},
	}, nil
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	out := &DatabaseStats{Type: string(c.config.Type), TableStats: make([]TableStat, 0, len(Tables))}

	// Size is best effort; not every backend exposes it.
	if size, err := c.databaseSize(ctx); err == nil {
		out.SizeBytes = size
	}

	for _, table := range Tables {
		ts, err := c.tableStat(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		out.TotalRecords += ts.RowCount
		out.TableStats = append(out.TableStats, ts)
	}
	return out, nil
}

func (c *Collector) collectCatalogStats(ctx context.Context) (*CatalogStats, error) {
	stats := &CatalogStats{}

	if err := c.db.GetContext(ctx, &stats.Cities, "SELECT COUNT(DISTINCT city) FROM venues WHERE city <> ''"); err != nil {
		return nil, fmt.Errorf("failed to count cities: %w", err)
	}

	var span struct {
		First string `db:"first_date"`
		Last  string `db:"last_date"`
	}
	query := "SELECT COALESCE(MIN(date), '') AS first_date, COALESCE(MAX(date), '') AS last_date FROM concerts WHERE date <> ''"
	if err := c.db.GetContext(ctx, &span, query); err != nil {
		return nil, fmt.Errorf("failed to get concert dates: %w", err)
	}
	stats.FirstConcert = span.First
	stats.LastConcert = span.Last

	return stats, nil
}

func (c *Collector) databaseSize(ctx context.Context) (int64, error) {
	query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if c.config.Type == config.DBTypePostgreSQL {
		query = "SELECT pg_database_size(current_database())"
	}
	var size int64
	err := c.db.GetContext(ctx, &size, query)
	return size, err
}

// tableStat counts rows in table. Per-table size is only known on Postgres.
func (c *Collector) tableStat(ctx context.Context, table string) (TableStat, error) {
	ts := TableStat{Name: table}
	if err := c.db.GetContext(ctx, &ts.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
		return TableStat{}, err
	}
	if c.config.Type == config.DBTypePostgreSQL {
		_ = c.db.GetContext(ctx, &ts.SizeBytes, "SELECT COALESCE(pg_total_relation_size($1::regclass), 0)", table)
	}
	return ts, nil
}
