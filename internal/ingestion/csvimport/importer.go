// Package csvimport bulk-loads the catalog fixture set (users, categories,
// genres, titles, title genres, reviews, comments) from a directory of CSV
// files.
package csvimport

import (
	"context"
	"database/sql/driver"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store is where parsed rows go.
type Store interface {
	Ping(ctx context.Context) error
	Insert(ctx context.Context, record any) error
	ResetSequences(ctx context.Context, tables []string) error
}

type loader struct {
	file  string
	table string
	parse func(row) (any, error)
}

// Files are loaded parents first so foreign keys resolve.
var loaders = []loader{
	{file: "users.csv", table: "users", parse: parseUser},
	{file: "category.csv", table: "categories", parse: parseCategory},
	{file: "genre.csv", table: "genres", parse: parseGenre},
	{file: "titles.csv", table: "titles", parse: parseTitle},
	{file: "genre_title.csv", table: "title_genres", parse: parseTitleGenre},
	{file: "review.csv", table: "reviews", parse: parseReview},
	{file: "comments.csv", table: "comments", parse: parseComment},
}

// FileStats summarizes one file of an import run.
type FileStats struct {
	File     string
	Missing  bool
	Inserted int
	Skipped  int
}

type Importer struct {
	store  Store
	logger *slog.Logger
}

func NewImporter(store Store, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportDir loads every known file found in dir. Bad rows and missing files
// are logged and skipped. An unreachable store, a connection lost mid-run or
// a cancelled ctx aborts.
func (im *Importer) ImportDir(ctx context.Context, dir string) ([]FileStats, error) {
	if err := im.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	stats := make([]FileStats, 0, len(loaders))
	var sequenced []string
	for _, l := range loaders {
		st, err := im.importFile(ctx, dir, l)
		stats = append(stats, st)
		if err != nil {
			return stats, err
		}
		if st.Inserted > 0 && l.table != "users" {
			sequenced = append(sequenced, l.table)
		}
	}

	if len(sequenced) > 0 {
		if err := im.store.ResetSequences(ctx, sequenced); err != nil {
			return stats, fmt.Errorf("failed to advance sequences: %w", err)
		}
	}
	return stats, nil
}

func (im *Importer) importFile(ctx context.Context, dir string, l loader) (FileStats, error) {
	st := FileStats{File: l.file}
	path := filepath.Join(dir, l.file)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		st.Missing = true
		im.logger.Warn("csv_file_missing", "file", path)
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		im.logger.Warn("csv_file_empty", "file", path)
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read header of %s: %w", path, err)
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			st.Skipped++
			im.logger.Warn("csv_row_unreadable", "file", l.file, "line", line, "error", err)
			continue
		}

		model, err := l.parse(toRow(header, record))
		if err != nil {
			st.Skipped++
			im.logger.Warn("csv_row_invalid", "file", l.file, "line", line, "error", err)
			continue
		}
		if err := im.store.Insert(ctx, model); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return st, ctxErr
			}
			if im.connectionLost(ctx, err) {
				im.logger.Error("csv_import_connection_lost", "file", l.file, "line", line, "error", err)
				return st, fmt.Errorf("database connection lost at %s line %d: %w", l.file, line, err)
			}
			st.Skipped++
			im.logger.Warn("csv_row_rejected", "file", l.file, "line", line, "error", err)
			continue
		}
		st.Inserted++
	}

	im.logger.Info("csv_file_imported", "file", l.file, "inserted", st.Inserted, "skipped", st.Skipped)
	return st, nil
}

// connectionLost tells a dead store apart from a single rejected row. Errors
// that do not name the connection are settled by pinging again.
func (im *Importer) connectionLost(ctx context.Context, err error) bool {
	var netErr net.Error
	var connErr *pgconn.ConnectError
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) || errors.As(err, &connErr) {
		return true
	}
	return im.store.Ping(ctx) != nil
}

func toRow(header, record []string) row {
	r := make(row, len(header))
	for i, name := range header {
		if i < len(record) {
			r[name] = record[i]
		}
	}
	return r
}
