package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/database"
	applog "github.com/wayhong0928/mayday-concert-map/internal/logger"
	"github.com/wayhong0928/mayday-concert-map/internal/stats"
	"go.uber.org/zap"
)

func main() {
	defaultFormat := os.Getenv("OUTPUT_FORMAT")
	if defaultFormat == "" {
		defaultFormat = "json"
	}
	format := flag.String("format", defaultFormat, "Output format: json or text")
	timeout := flag.Duration("timeout", 10*time.Second, "Deadline for the database queries")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}
	defer db.Close()

	// A fresh in-memory database has no tables until migrated.
	if cfg.DB.IsMemory() {
		if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
			logger.Fatal("Schema setup failed", zap.Error(err))
		}
	}

	snapshot, err := stats.NewCollector(db, cfg.DB).Collect(ctx)
	if err != nil {
		logger.Fatal("Statistics unavailable", zap.Error(err))
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(snapshot)
	case "text", "human":
		err = writeReport(os.Stdout, snapshot)
	default:
		logger.Fatal("Unsupported output format", zap.String("format", *format))
	}
	if err != nil {
		logger.Fatal("Writing report failed", zap.Error(err))
	}
}

func writeReport(out io.Writer, s *stats.Stats) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Mayday concert map, %s\n\n", s.Timestamp.Format(time.DateTime))

	fmt.Fprintf(tw, "[database]\t%s\n", s.Database.Type)
	for _, ts := range s.Database.TableStats {
		fmt.Fprintf(tw, "  %s\t%d rows\t%s\n", ts.Name, ts.RowCount, sizeOrBlank(ts.SizeBytes))
	}
	fmt.Fprintf(tw, "  total\t%d rows\t%s\n\n", s.Database.TotalRecords, sizeOrBlank(s.Database.SizeBytes))

	fmt.Fprintf(tw, "[catalog]\t\n")
	fmt.Fprintf(tw, "  cities\t%d\n", s.Catalog.Cities)
	if s.Catalog.FirstConcert != "" {
		fmt.Fprintf(tw, "  span\t%s .. %s\n", s.Catalog.FirstConcert, s.Catalog.LastConcert)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "[process]\t\n")
	fmt.Fprintf(tw, "  heap alloc\t%s\n", humanBytes(s.Memory.Alloc))
	fmt.Fprintf(tw, "  heap in use\t%s\n", humanBytes(s.Memory.HeapInuse))
	fmt.Fprintf(tw, "  gc runs\t%d\n", s.Memory.NumGC)
	fmt.Fprintf(tw, "  goroutines\t%d\n", s.Runtime.NumGoroutines)

	return tw.Flush()
}

func sizeOrBlank(n int64) string {
	if n <= 0 {
		return ""
	}
	return humanBytes(uint64(n))
}

func humanBytes(n uint64) string {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
