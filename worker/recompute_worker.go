package worker

import (
	"context"
	"time"

	"bizledger/logger"
	"bizledger/repository"
	"bizledger/service"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// RecomputeWorker schedules the batch jobs: the nightly category recompute
// and the periodic follow-up scan. The recompute runs under a Redis lock so
// only one instance executes it when several replicas are deployed.
type RecomputeWorker struct {
	cronEngine    *cron.Cron
	debtorService *service.DebtorService
	rulesRepo     *repository.RulesRepository
	locker        *redislock.Client
	lockTTL       time.Duration
	recomputeSpec string
	followupSpec  string
}

// NewRecomputeWorker creates a new recompute worker. rdb may be nil, in
// which case jobs run unlocked (single-instance deployments).
func NewRecomputeWorker(
	debtorService *service.DebtorService,
	rulesRepo *repository.RulesRepository,
	rdb *redis.Client,
	recomputeSpec string,
	followupSpec string,
	lockTTL time.Duration,
) *RecomputeWorker {
	w := &RecomputeWorker{
		cronEngine:    cron.New(cron.WithLocation(time.UTC)),
		debtorService: debtorService,
		rulesRepo:     rulesRepo,
		lockTTL:       lockTTL,
		recomputeSpec: recomputeSpec,
		followupSpec:  followupSpec,
	}
	if rdb != nil {
		w.locker = redislock.New(rdb)
	}
	return w
}

// Start registers the cron entries and starts the scheduler.
func (w *RecomputeWorker) Start() error {
	if _, err := w.cronEngine.AddFunc(w.recomputeSpec, w.runRecompute); err != nil {
		return err
	}
	if _, err := w.cronEngine.AddFunc(w.followupSpec, w.runFollowupScan); err != nil {
		return err
	}
	w.cronEngine.Start()
	logger.Log.Infof("recompute worker started (recompute %q, follow-up scan %q)", w.recomputeSpec, w.followupSpec)
	return nil
}

// Stop stops the scheduler, waiting for running jobs to finish.
func (w *RecomputeWorker) Stop() {
	ctx := w.cronEngine.Stop()
	<-ctx.Done()
	logger.Log.Info("recompute worker stopped")
}

// RunRecomputeOnce executes one recompute pass for a single tenant,
// bypassing the schedule. The manual-trigger endpoint uses this.
func (w *RecomputeWorker) RunRecomputeOnce(ctx context.Context, tenantID string) error {
	_, err := w.debtorService.Recompute(ctx, tenantID, time.Now().UTC())
	return err
}

func (w *RecomputeWorker) runRecompute() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if w.locker != nil {
		lock, err := w.locker.Obtain(ctx, "jobs:recompute", w.lockTTL, nil)
		if err == redislock.ErrNotObtained {
			logger.Log.Debug("recompute already running elsewhere, skipping")
			return
		}
		if err != nil {
			logger.Log.WithError(err).Error("could not obtain recompute lock")
			return
		}
		defer lock.Release(ctx)
	}

	start := time.Now()
	tenants, err := w.rulesRepo.ListTenantIDs(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("recompute: could not list tenants")
		return
	}

	for _, tenantID := range tenants {
		if _, err := w.debtorService.Recompute(ctx, tenantID, time.Now().UTC()); err != nil {
			logger.Log.WithError(err).WithField("tenant_id", tenantID).Error("recompute failed for tenant")
		}
	}
	logger.Log.Infof("nightly recompute finished for %d tenants in %v", len(tenants), time.Since(start))
}

func (w *RecomputeWorker) runFollowupScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tenants, err := w.rulesRepo.ListTenantIDs(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("follow-up scan: could not list tenants")
		return
	}

	now := time.Now().UTC()
	for _, tenantID := range tenants {
		due, err := w.debtorService.ScanFollowUpsDue(ctx, tenantID, now)
		if err != nil {
			logger.Log.WithError(err).WithField("tenant_id", tenantID).Error("follow-up scan failed for tenant")
			continue
		}
		if len(due) > 0 {
			logger.Log.WithField("tenant_id", tenantID).
				Infof("follow-up scan: %d debtor(s) due for outreach", len(due))
		}
	}
}
