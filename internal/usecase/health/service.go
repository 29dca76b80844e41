package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache    CachePinger
	episodes EpisodePinger
	index    IndexPinger
}

// New creates a Service. episodes and index can be nil.
func New(cache CachePinger, episodes EpisodePinger, index IndexPinger) *Service {
	return &Service{cache: cache, episodes: episodes, index: index}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["cache"] = resultOf(s.cache.Ping(ctx))
	if s.episodes != nil {
		checks["episodes"] = resultOf(s.episodes.Ping(ctx))
	}
	if s.index != nil {
		checks["index"] = resultOf(s.index.Ping(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func resultOf(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
