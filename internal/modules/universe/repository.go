// Package universe maintains the instrument directory: the reference data
// for every tradable security known to the engine.
package universe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// instrumentColumns is the column list for the instruments table.
// Used to avoid SELECT * which can break when the schema changes.
const instrumentColumns = `ticker, company_name, exchange, sector, asset_class, updated_at`

// InstrumentRepository handles instrument directory database operations.
type InstrumentRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(db *sql.DB, log zerolog.Logger) *InstrumentRepository {
	return &InstrumentRepository{
		db:  db,
		log: log.With().Str("repo", "instruments").Logger(),
	}
}

// EnsureSchema creates the instruments table when it does not exist yet.
func (r *InstrumentRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS instruments (
			ticker       TEXT PRIMARY KEY,
			company_name TEXT NOT NULL,
			exchange     TEXT NOT NULL,
			sector       TEXT NOT NULL DEFAULT '',
			asset_class  TEXT NOT NULL DEFAULT 'Equity',
			updated_at   INTEGER NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create instruments table: %w", err)
	}
	return nil
}

// GetByTicker returns an instrument by canonical ticker, or nil when absent.
func (r *InstrumentRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Instrument, error) {
	query := "SELECT " + instrumentColumns + " FROM instruments WHERE ticker = ?"

	row := r.db.QueryRowContext(ctx, query, strings.ToUpper(strings.TrimSpace(ticker)))
	instrument, err := scanInstrument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument: %w", err)
	}
	return instrument, nil
}

// GetAll returns every instrument ordered by ticker.
func (r *InstrumentRepository) GetAll(ctx context.Context) ([]domain.Instrument, error) {
	query := "SELECT " + instrumentColumns + " FROM instruments ORDER BY ticker"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	var instruments []domain.Instrument
	for rows.Next() {
		instrument, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, *instrument)
	}
	return instruments, rows.Err()
}

// Count returns the number of instruments in the directory.
func (r *InstrumentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM instruments").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count instruments: %w", err)
	}
	return count, nil
}

// ReplaceAll swaps the directory contents wholesale inside one transaction.
// Refreshes never patch rows in place while readers are active; readers work
// off in-memory snapshots loaded after the transaction commits.
func (r *InstrumentRepository) ReplaceAll(ctx context.Context, instruments []domain.Instrument) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM instruments"); err != nil {
		return fmt.Errorf("failed to clear instruments: %w", err)
	}

	now := time.Now().UTC().Unix()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO instruments (ticker, company_name, exchange, sector, asset_class, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, instrument := range instruments {
		ticker := strings.ToUpper(strings.TrimSpace(instrument.Ticker))
		if ticker == "" {
			continue
		}
		assetClass := instrument.AssetClass
		if assetClass == "" {
			assetClass = domain.AssetClassEquity
		}
		if _, err := stmt.ExecContext(ctx, ticker, instrument.CompanyName,
			instrument.Exchange, instrument.Sector, string(assetClass), now); err != nil {
			return fmt.Errorf("failed to insert instrument %s: %w", ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit instruments: %w", err)
	}

	r.log.Info().Int("count", len(instruments)).Msg("Instrument directory replaced")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInstrument(row rowScanner) (*domain.Instrument, error) {
	var instrument domain.Instrument
	var assetClass string
	var updatedAt int64

	if err := row.Scan(&instrument.Ticker, &instrument.CompanyName,
		&instrument.Exchange, &instrument.Sector, &assetClass, &updatedAt); err != nil {
		return nil, err
	}
	instrument.AssetClass = domain.AssetClass(assetClass)
	return &instrument, nil
}
