package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/jobscheduler"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	JobPathSync      = "/v1/internal/jobs/sync"
	JobPathScore     = "/v1/internal/jobs/score"
	JobPathStandings = "/v1/internal/jobs/standings"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobConfig struct {
	SyncInterval      time.Duration
	ScoreInterval     time.Duration
	StandingsInterval time.Duration
	// StandingsDelay gives queued score jobs a head start before the boards rebuild.
	StandingsDelay time.Duration
}

// JobInput is the payload delivered to an internal job endpoint.
type JobInput struct {
	DispatchID string `json:"dispatch_id"`
	GameweekID string `json:"gameweek_id,omitempty"`
}

type JobDispatchResult struct {
	QueuedCount      int      `json:"queued_count"`
	QueuedOperations []string `json:"queued_operations"`
}

type JobService struct {
	gameweekRepo gameweek.Repository
	syncSvc      *SyncService
	scoringSvc   *ScoringService
	standingSvc  *StandingService
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobService(
	gameweekRepo gameweek.Repository,
	syncSvc *SyncService,
	scoringSvc *ScoringService,
	standingSvc *StandingService,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobConfig,
	logger *logging.Logger,
) *JobService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 15 * time.Minute
	}
	if cfg.ScoreInterval <= 0 {
		cfg.ScoreInterval = 5 * time.Minute
	}
	if cfg.StandingsInterval <= 0 {
		cfg.StandingsInterval = 5 * time.Minute
	}
	if cfg.StandingsDelay < 0 {
		cfg.StandingsDelay = 0
	}

	return &JobService{
		gameweekRepo: gameweekRepo,
		syncSvc:      syncSvc,
		scoringSvc:   scoringSvc,
		standingSvc:  standingSvc,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Dispatch enqueues one sync, a score job for the current and previous
// gameweek, and one standings rebuild. Dedup ids bucket by interval so a
// repeated dispatch inside the same window is collapsed by the queue.
func (s *JobService) Dispatch(ctx context.Context) (JobDispatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.Dispatch")
	defer span.End()

	now := s.now().UTC()
	result := JobDispatchResult{QueuedOperations: make([]string, 0, 4)}

	if err := s.enqueue(ctx, jobscheduler.JobSync, JobPathSync, "", 0, s.cfg.SyncInterval, now); err != nil {
		recordSpanError(span, err)
		return JobDispatchResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobscheduler.JobSync)

	targets, err := s.scoreTargets(ctx)
	if err != nil {
		recordSpanError(span, err)
		return JobDispatchResult{}, err
	}
	for _, gameweekID := range targets {
		if err := s.enqueue(ctx, jobscheduler.JobScore, JobPathScore, gameweekID, 0, s.cfg.ScoreInterval, now); err != nil {
			recordSpanError(span, err)
			return JobDispatchResult{}, err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, jobscheduler.JobScore+":"+gameweekID)
	}

	if err := s.enqueue(ctx, jobscheduler.JobStandings, JobPathStandings, "", s.cfg.StandingsDelay, s.cfg.StandingsInterval, now); err != nil {
		recordSpanError(span, err)
		return JobDispatchResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobscheduler.JobStandings)

	return result, nil
}

func (s *JobService) RunSync(ctx context.Context, input JobInput) (SyncSummary, error) {
	if s.syncSvc == nil {
		return SyncSummary{}, fmt.Errorf("%w: catalog sync is not configured", ErrDependencyUnavailable)
	}
	started := s.now().UTC()
	summary, err := s.syncSvc.SyncCatalog(ctx)
	s.recordRun(ctx, jobscheduler.JobSync, JobPathSync, input, summary, err, started)
	return summary, err
}

func (s *JobService) RunScore(ctx context.Context, input JobInput) (ScoreSummary, error) {
	input.GameweekID = strings.TrimSpace(input.GameweekID)
	started := s.now().UTC()
	if input.GameweekID == "" {
		current, exists, err := s.gameweekRepo.GetCurrent(ctx)
		if err != nil {
			return ScoreSummary{}, fmt.Errorf("get current gameweek: %w", err)
		}
		if !exists {
			return ScoreSummary{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
		}
		input.GameweekID = current.ID
	}

	summary, err := s.scoringSvc.ScoreGameweek(ctx, input.GameweekID)
	s.recordRun(ctx, jobscheduler.JobScore, JobPathScore, input, summary, err, started)
	return summary, err
}

func (s *JobService) RunStandings(ctx context.Context, input JobInput) (RefreshAllSummary, error) {
	started := s.now().UTC()
	summary, err := s.standingSvc.RefreshAll(ctx)
	s.recordRun(ctx, jobscheduler.JobStandings, JobPathStandings, input, summary, err, started)
	return summary, err
}

func (s *JobService) ListRecentEvents(ctx context.Context, jobName string, limit int) ([]jobscheduler.DispatchEvent, error) {
	if s.dispatchRepo == nil {
		return []jobscheduler.DispatchEvent{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := s.dispatchRepo.ListRecent(ctx, strings.TrimSpace(jobName), limit)
	if err != nil {
		return nil, fmt.Errorf("list job dispatch events: %w", err)
	}
	return items, nil
}

// scoreTargets returns the current gameweek and the one before it, since late
// results for the previous round may still arrive.
func (s *JobService) scoreTargets(ctx context.Context) ([]string, error) {
	current, exists, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return []string{}, nil
	}

	out := []string{current.ID}
	if current.Number <= gameweek.MinNumber {
		return out, nil
	}
	previous, found, err := s.gameweekRepo.GetByNumber(ctx, current.Number-1)
	if err != nil {
		return nil, fmt.Errorf("get previous gameweek: %w", err)
	}
	if found {
		out = append(out, previous.ID)
	}
	return out, nil
}

func (s *JobService) enqueue(ctx context.Context, jobName, path, target string, delay, bucket time.Duration, now time.Time) error {
	dedupID := dedupKey(jobName, target, now.Add(delay), bucket)
	payload := map[string]any{"dispatch_id": dedupID}
	if target != "" {
		payload["gameweek_id"] = target
	}

	event := jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    jobName,
		JobPath:    path,
		Target:     target,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now,
	}
	if err := s.queue.Enqueue(ctx, path, payload, delay, dedupID); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return fmt.Errorf("enqueue %s target=%s: %w", jobName, target, err)
	}
	s.recordDispatchEvent(ctx, event)
	return nil
}

func (s *JobService) recordRun(ctx context.Context, jobName, path string, input JobInput, result any, runErr error, started time.Time) {
	dispatchID := strings.TrimSpace(input.DispatchID)
	if dispatchID == "" {
		dispatchID = dedupKey(jobName+"-direct", input.GameweekID, started, time.Second)
	}

	event := jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		JobName:    jobName,
		JobPath:    path,
		Target:     input.GameweekID,
		Status:     jobscheduler.StatusCompleted,
		Payload: map[string]any{
			"result":      result,
			"duration_ms": s.now().Sub(started).Milliseconds(),
		},
	}
	if runErr != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = runErr.Error()
		s.logger.WarnContext(ctx, "job run failed", "job", jobName, "dispatch_id", dispatchID, "error", runErr)
	}
	s.recordDispatchEvent(ctx, event)
}

func dedupKey(prefix, target string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	target = sanitizeDedupSegment(target)
	return prefix + "-" + target + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "all"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	event.TraceID, event.SpanID = traceMetaFromContext(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
