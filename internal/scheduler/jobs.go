package scheduler

import (
	"context"
	"time"

	"github.com/aristath/folio/internal/clients/marketdata"
	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/modules/universe"
	"github.com/rs/zerolog"
)

// jobTimeout bounds one run of any maintenance job.
const jobTimeout = 30 * time.Second

// DirectoryRefreshJob reloads the instrument directory snapshot from the
// database so out-of-band instrument updates become visible.
type DirectoryRefreshJob struct {
	directory *universe.Directory
}

// NewDirectoryRefreshJob creates a directory refresh job
func NewDirectoryRefreshJob(directory *universe.Directory) *DirectoryRefreshJob {
	return &DirectoryRefreshJob{directory: directory}
}

func (j *DirectoryRefreshJob) Name() string { return "directory_refresh" }

func (j *DirectoryRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	return j.directory.Load(ctx)
}

// PolicyReloadJob re-reads the policy file so threshold and benchmark edits
// take effect without a restart. An invalid file keeps the old policy.
type PolicyReloadJob struct {
	policies *config.PolicyStore
}

// NewPolicyReloadJob creates a policy reload job
func NewPolicyReloadJob(policies *config.PolicyStore) *PolicyReloadJob {
	return &PolicyReloadJob{policies: policies}
}

func (j *PolicyReloadJob) Name() string { return "policy_reload" }

func (j *PolicyReloadJob) Run() error {
	return j.policies.Reload()
}

// CachePruneJob deletes expired quote cache rows.
type CachePruneJob struct {
	cache *marketdata.QuoteCache
	log   zerolog.Logger
}

// NewCachePruneJob creates a quote cache prune job
func NewCachePruneJob(cache *marketdata.QuoteCache, log zerolog.Logger) *CachePruneJob {
	return &CachePruneJob{
		cache: cache,
		log:   log.With().Str("job", "cache_prune").Logger(),
	}
}

func (j *CachePruneJob) Name() string { return "cache_prune" }

func (j *CachePruneJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	deleted, err := j.cache.Prune(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("Pruned expired quote cache entries")
	}
	return nil
}
