package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/engine"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
	"github.com/wayhong0928/mayday-concert-map/internal/seeder"
	"go.uber.org/zap"
)

var errIntegrity = errors.New("integrity warnings found")

type options struct {
	dataDir string
	verbose bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "chronicle",
		Short:         "Browse concerts and reconstructed setlists from the JSON dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	defaultDir := os.Getenv("SEEDER_DATA_DIR")
	if defaultDir == "" {
		defaultDir = "data"
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", defaultDir, "Directory holding venues, tours and concerts JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")

	root.AddCommand(concertsCmd(opts))
	root.AddCommand(setlistCmd(opts))
	root.AddCommand(validateCmd(opts))
	return root
}

func concertsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "concerts",
		Short: "List concerts with their resolved venues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, logger, err := load(cmd, opts)
			if err != nil {
				return err
			}
			concerts := engine.Hydrate(ds.Concerts, ds.Venues, logger)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tID\tCITY\tVENUE\tTOUR")
			for _, c := range concerts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Date, c.ID, c.City, c.DisplayVenueName, c.TourRef)
			}
			return w.Flush()
		},
	}
}

func setlistCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "setlist <concert-id>",
		Short: "Print the reconstructed setlist of a concert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, logger, err := load(cmd, opts)
			if err != nil {
				return err
			}

			var raw *model.ConcertRaw
			for i := range ds.Concerts {
				if ds.Concerts[i].ID == args[0] {
					raw = &ds.Concerts[i]
					break
				}
			}
			if raw == nil {
				return fmt.Errorf("concert %q not found", args[0])
			}
			concert := engine.Hydrate([]model.ConcertRaw{*raw}, ds.Venues, logger)[0]

			// A concert without its tour prints an empty setlist.
			tourName := "unknown tour"
			var items []model.SetlistItem
			var warnings []model.IntegrityWarning
			if tour, ok := seeder.CreateTourIndex(ds.Tours)[raw.TourRef]; ok {
				tourName = tour.Name.Primary
				items, warnings = engine.ReconstructWithReport(tour, concert)
			} else {
				warnings = []model.IntegrityWarning{{
					Kind:      model.WarningMissingTour,
					ConcertID: raw.ID,
					TourID:    raw.TourRef,
					Message:   fmt.Sprintf("missing tour %q, setlist unavailable", raw.TourRef),
				}}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s, %s  (%s)\n\n", concert.Date, concert.DisplayVenueName, concert.City, tourName)
			printSetlist(out, items)
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
			}
			return nil
		},
	}
}

func validateCmd(opts *options) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check references and modifications across the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := load(cmd, opts)
			if err != nil {
				return err
			}

			warnings := append(ds.Warnings, engine.CheckIntegrity(ds.Venues, ds.Tours, ds.Concerts)...)
			out := cmd.OutOrStdout()
			for _, w := range warnings {
				fmt.Fprintf(out, "%-20s %-24s %s\n", w.Kind, w.ConcertID, w.Message)
			}
			fmt.Fprintf(out, "%d venues, %d tours, %d concerts, %d warnings\n",
				len(ds.Venues), len(ds.Tours), len(ds.Concerts), len(warnings))

			if strict && len(warnings) > 0 {
				return errIntegrity
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any warning is found")
	return cmd
}

func load(cmd *cobra.Command, opts *options) (*seeder.Dataset, *zap.Logger, error) {
	logger := zap.NewNop()
	if opts.verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
	}

	parser := seeder.NewParser(opts.dataDir, config.SeederConfig{})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ds, err := parser.LoadDataset(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ds, logger, nil
}

func printSetlist(w io.Writer, items []model.SetlistItem) {
	encoreLevel := 0
	for _, item := range items {
		if item.IsEncore && item.EncoreLevel != encoreLevel {
			encoreLevel = item.EncoreLevel
			fmt.Fprintf(w, "-- encore %d --\n", encoreLevel)
		}

		var tags []string
		if item.IsAdded {
			tags = append(tags, "added")
		}
		if item.IsMedley {
			tags = append(tags, "medley")
		}
		if item.IsCover {
			tags = append(tags, "cover")
		}
		if item.IsRequest {
			tags = append(tags, "request")
		}
		if item.Note != "" {
			tags = append(tags, item.Note)
		}

		line := fmt.Sprintf("%7g  %s", item.Seq, item.Name)
		if len(tags) > 0 {
			line += "  [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}
