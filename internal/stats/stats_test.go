package stats

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/database"
)

func setupTestDB(t *testing.T) (*sqlx.DB, config.DBConfig) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: fmt.Sprintf("stats_test_%d", rng.Int()),
	}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))

	return db, cfg
}

func TestCollector_Collect(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO venues (id, name_primary, name_alternate, city, lat, lon, aliases) VALUES
		('taipei-dome', '臺北大巨蛋', 'Taipei Dome', 'Taipei', 25.04, 121.56, '[]'),
		('taipei-arena', '臺北小巨蛋', 'Taipei Arena', 'Taipei', 25.05, 121.55, '[]'),
		('hk-coliseum', '紅磡體育館', '', 'Hong Kong', 22.30, 114.18, '[]')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO concerts (id, position, tour_ref, venue_ref, venue_name_historical, date) VALUES
		('b', 0, 't', 'taipei-dome', '', '2019-05-18'),
		('a', 1, 't', 'hk-coliseum', '', '2017-03-01'),
		('c', 2, 't', 'gone', '', '')`)
	require.NoError(t, err)

	collector := NewCollector(db, cfg)

	stats, err := collector.Collect(ctx)
	require.NoError(t, err)

	assert.Equal(t, "memory", stats.Database.Type)
	assert.Equal(t, int64(6), stats.Database.TotalRecords)
	require.Len(t, stats.Database.TableStats, 3)
	assert.Equal(t, "venues", stats.Database.TableStats[0].Name)
	assert.Equal(t, int64(3), stats.Database.TableStats[0].RowCount)
	assert.Equal(t, int64(3), stats.Database.TableStats[2].RowCount)

	assert.Equal(t, 2, stats.Catalog.Cities)
	assert.Equal(t, "2017-03-01", stats.Catalog.FirstConcert)
	assert.Equal(t, "2019-05-18", stats.Catalog.LastConcert)

	assert.Greater(t, stats.Memory.Alloc, uint64(0))
	assert.GreaterOrEqual(t, stats.Runtime.NumGoroutines, 1)

	stats2, err := collector.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Memory.Alloc, stats2.Memory.Alloc)
}

func TestCollector_EmptyDB(t *testing.T) {
	db, cfg := setupTestDB(t)
	defer db.Close()

	stats, err := NewCollector(db, cfg).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Database.TotalRecords)
	assert.Equal(t, 0, stats.Catalog.Cities)
	assert.Empty(t, stats.Catalog.FirstConcert)
}

func TestCollector_MissingTables(t *testing.T) {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: fmt.Sprintf("stats_bare_%d", time.Now().UnixNano())}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewCollector(db, cfg).Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count venues")
}

func TestMemCache_Expires(t *testing.T) {
	var m memCache
	start := time.Now()

	m.get(start)
	assert.Equal(t, start, m.taken)

	m.get(start.Add(memStatsTTL / 2))
	assert.Equal(t, start, m.taken, "reading within the TTL reuses the snapshot")

	later := start.Add(memStatsTTL)
	m.get(later)
	assert.Equal(t, later, m.taken)
}
