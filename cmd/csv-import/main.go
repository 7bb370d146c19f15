package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/ingestion/csvimport"
	"yamdb/internal/logging"
)

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "csv-import",
	Short: "csv-import - load the YaMDb fixture CSVs into the database",
	Long: `csv-import reads users.csv, category.csv, genre.csv, titles.csv,
genre_title.csv, review.csv and comments.csv from a directory and inserts them
in that order, keeping their ids. Bad rows and missing files are logged and
skipped.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&dataDir, "dir", "d", "./data", "directory holding the CSV files")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("csv_import_started", "dir", dataDir)
	stats, err := csvimport.NewImporter(csvimport.NewGormStore(db), logger).ImportDir(ctx, dataDir)
	if err != nil {
		return err
	}

	var inserted, skipped int
	for _, st := range stats {
		inserted += st.Inserted
		skipped += st.Skipped
	}
	logger.Info("csv_import_finished", "inserted", inserted, "skipped", skipped)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
