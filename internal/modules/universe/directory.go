package universe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// snapshot is one immutable generation of the directory. Readers that hold
// a snapshot keep using it even while a refresh swaps in a newer one.
type snapshot struct {
	byTicker map[string]domain.Instrument
	sorted   []domain.Instrument
	loadedAt time.Time
}

// Directory is the in-memory instrument directory. All reads go through an
// atomically swapped snapshot, so lookups need no locks and are safe for
// unsynchronized concurrent use. It implements domain.InstrumentSource.
type Directory struct {
	current atomic.Pointer[snapshot]
	repo    *InstrumentRepository
	log     zerolog.Logger
}

// NewDirectory creates a directory backed by the instrument repository.
// Call Load before serving lookups.
func NewDirectory(repo *InstrumentRepository, log zerolog.Logger) *Directory {
	d := &Directory{
		repo: repo,
		log:  log.With().Str("component", "directory").Logger(),
	}
	d.current.Store(&snapshot{byTicker: map[string]domain.Instrument{}})
	return d
}

// NewStaticDirectory creates a directory preloaded with a fixed instrument
// list and no backing repository. Used by tests.
func NewStaticDirectory(instruments []domain.Instrument, log zerolog.Logger) *Directory {
	d := NewDirectory(nil, log)
	d.swap(instruments)
	return d
}

// Load reads the full directory from the repository and swaps the snapshot.
func (d *Directory) Load(ctx context.Context) error {
	if d.repo == nil {
		return fmt.Errorf("directory has no backing repository")
	}

	instruments, err := d.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load instrument directory: %w", err)
	}

	d.swap(instruments)
	d.log.Info().Int("instruments", len(instruments)).Msg("Directory snapshot loaded")
	return nil
}

func (d *Directory) swap(instruments []domain.Instrument) {
	byTicker := make(map[string]domain.Instrument, len(instruments))
	sorted := make([]domain.Instrument, 0, len(instruments))
	for _, instrument := range instruments {
		instrument.Ticker = strings.ToUpper(strings.TrimSpace(instrument.Ticker))
		if instrument.Ticker == "" {
			continue
		}
		if _, seen := byTicker[instrument.Ticker]; seen {
			continue
		}
		byTicker[instrument.Ticker] = instrument
		sorted = append(sorted, instrument)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ticker < sorted[j].Ticker })

	d.current.Store(&snapshot{
		byTicker: byTicker,
		sorted:   sorted,
		loadedAt: time.Now().UTC(),
	})
}

// Lookup returns the instrument for a canonical uppercase ticker.
func (d *Directory) Lookup(ticker string) (domain.Instrument, bool) {
	snap := d.current.Load()
	instrument, ok := snap.byTicker[ticker]
	return instrument, ok
}

// All returns the current snapshot sorted by ticker. Read-only.
func (d *Directory) All() []domain.Instrument {
	return d.current.Load().sorted
}

// Len returns the number of instruments in the current snapshot.
func (d *Directory) Len() int {
	return len(d.current.Load().sorted)
}

// LoadedAt returns when the current snapshot was taken.
func (d *Directory) LoadedAt() time.Time {
	return d.current.Load().loadedAt
}

// SectorOf returns the sector for a ticker, or empty string when unknown.
func (d *Directory) SectorOf(ticker string) string {
	if instrument, ok := d.Lookup(ticker); ok {
		return instrument.Sector
	}
	return ""
}
