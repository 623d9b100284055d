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
	Status    Status
	Checks    map[string]CheckResult
	Documents int
}

// Service coordinates health checks.
type Service struct {
	docs DocumentCounter
	db   DBPinger
}

// New creates a Service. db can be nil when no database is configured.
func New(docs DocumentCounter, db DBPinger) *Service {
	return &Service{docs: docs, db: db}
}

// Check runs health checks against all components. The document store check
// fails when the corpus produced nothing: an empty store means the service
// can answer no useful query.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	count := s.docs.Count()
	if count == 0 {
		checks["docstore"] = CheckError
	} else {
		checks["docstore"] = CheckOK
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, Documents: count}
}
