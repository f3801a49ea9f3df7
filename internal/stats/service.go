package stats

import (
	"log/slog"

	internal "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
)

// Repository is the subset of leave store queries the aggregator needs.
type Repository interface {
	CountLeaves(scope auth.LeaveScope, status *leave.Status) (int64, error)
	DecisionsByMonth(scope auth.LeaveScope) (map[string]int64, error)
}

// Overview summarizes the leaves visible to a role. ByMonth maps "YYYY-MM"
// of the decision timestamp to the number of decisions in that month; only
// months with data appear, and the keys order chronologically.
type Overview struct {
	Total    int64            `json:"total"`
	Pending  int64            `json:"pending"`
	Approved int64            `json:"approved"`
	Rejected int64            `json:"rejected"`
	ByMonth  map[string]int64 `json:"by_month"`
}

// Service derives aggregate statistics from the leave store.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Overview computes counts over the role-scoped subset of leaves. A failure
// in the by-month grouping degrades to an empty mapping instead of failing
// the whole request; the counts are always authoritative.
func (s *Service) Overview(ident auth.Identity) (*Overview, error) {
	scope := auth.StatsScope(ident)

	total, err := s.repo.CountLeaves(scope, nil)
	if err != nil {
		s.logger.Error("failed to count leaves", "error", err, "user_id", ident.ID)
		return nil, internal.NewUnavailableError("leave store unavailable", err)
	}

	counts := make(map[leave.Status]int64, 3)
	for _, status := range []leave.Status{leave.StatusPending, leave.StatusApproved, leave.StatusRejected} {
		st := status
		n, err := s.repo.CountLeaves(scope, &st)
		if err != nil {
			s.logger.Error("failed to count leaves by status", "error", err, "status", status, "user_id", ident.ID)
			return nil, internal.NewUnavailableError("leave store unavailable", err)
		}
		counts[status] = n
	}

	byMonth, err := s.repo.DecisionsByMonth(scope)
	if err != nil {
		s.logger.Warn("by-month aggregation failed, returning empty mapping", "error", err, "user_id", ident.ID)
		byMonth = map[string]int64{}
	}
	if byMonth == nil {
		byMonth = map[string]int64{}
	}

	return &Overview{
		Total:    total,
		Pending:  counts[leave.StatusPending],
		Approved: counts[leave.StatusApproved],
		Rejected: counts[leave.StatusRejected],
		ByMonth:  byMonth,
	}, nil
}
