package leave

import (
	"log/slog"
	"time"

	internal "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
)

// Repository is the leave record store.
type Repository interface {
	Create(l *Leave) error
	GetByID(id int64) (*Leave, error)
	// GetByApplicant returns the applicant's leaves, most recent first.
	GetByApplicant(applicantID int64) ([]*Leave, error)
	// GetPending returns pending leaves within scope, most recent first.
	GetPending(scope auth.LeaveScope) ([]*Leave, error)
	// Decide transitions the leave out of pending with a conditional
	// update. It returns false when no row was affected, i.e. the leave
	// was already decided by a concurrent call.
	Decide(id int64, d Decision) (bool, error)
}

// Service orchestrates apply/list/decide on leave applications.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Apply submits a new leave application for the caller. The applicant's
// name and role are snapshotted onto the record.
func (s *Service) Apply(ident auth.Identity, dto ApplyDTO) (*Leave, error) {
	if !auth.Allowed(ident.Role, auth.ActionApplyLeave) {
		s.logger.Warn("apply denied: role not permitted", "user_id", ident.ID, "role", ident.Role)
		return nil, internal.ErrRoleNotPermitted
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	start, end, err := dto.ParseDates()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	l := &Leave{
		ApplicantID:   ident.ID,
		ApplicantName: ident.Name,
		ApplicantRole: ident.Role,
		Reason:        dto.Reason,
		Type:          Type(dto.Type),
		StartDate:     start,
		EndDate:       end,
		AttachmentURL: dto.AttachmentURL,
		Status:        StatusPending,
		SubmittedAt:   now,
	}

	if err := s.repo.Create(l); err != nil {
		s.logger.Error("failed to create leave", "error", err, "user_id", ident.ID)
		return nil, internal.NewUnavailableError("leave store unavailable", err)
	}

	s.logger.Info("leave submitted",
		"leave_id", l.ID,
		"user_id", ident.ID,
		"type", l.Type,
		"start_date", dto.StartDate,
		"end_date", dto.EndDate)

	return l, nil
}

// ListMine returns the caller's own leaves, most recent first.
func (s *Service) ListMine(ident auth.Identity) ([]*Leave, error) {
	leaves, err := s.repo.GetByApplicant(ident.ID)
	if err != nil {
		s.logger.Error("failed to list own leaves", "error", err, "user_id", ident.ID)
		return nil, internal.NewUnavailableError("leave store unavailable", err)
	}
	return leaves, nil
}

// ListPending returns the pending queue visible to the caller's role.
func (s *Service) ListPending(ident auth.Identity) ([]*Leave, error) {
	scope, err := auth.PendingScope(ident)
	if err != nil {
		s.logger.Warn("pending queue denied", "user_id", ident.ID, "role", ident.Role)
		return nil, err
	}

	leaves, err := s.repo.GetPending(scope)
	if err != nil {
		s.logger.Error("failed to list pending leaves", "error", err, "user_id", ident.ID)
		return nil, internal.NewUnavailableError("leave store unavailable", err)
	}
	return leaves, nil
}

// Decide transitions a pending leave to approved or rejected. The store
// performs a conditional update, so when two decisions race exactly one
// succeeds and the other reports the leave as already decided.
func (s *Service) Decide(ident auth.Identity, leaveID int64, dto DecideDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	l, err := s.repo.GetByID(leaveID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return err
		}
		s.logger.Error("failed to load leave for decision", "error", err, "leave_id", leaveID)
		return internal.NewUnavailableError("leave store unavailable", err)
	}

	if !l.CanBeDecided() {
		s.logger.Warn("decide rejected: leave not pending",
			"leave_id", leaveID,
			"status", l.Status)
		return internal.ErrLeaveAlreadyDecided
	}

	if !auth.Allowed(ident.Role, auth.DecideAction(l.ApplicantRole)) {
		s.logger.Warn("decide denied: role not permitted",
			"leave_id", leaveID,
			"decider_role", ident.Role,
			"applicant_role", l.ApplicantRole)
		return internal.ErrRoleNotPermitted
	}

	decided, err := s.repo.Decide(leaveID, Decision{
		Status:    Status(dto.Status),
		ByID:      ident.ID,
		ByName:    ident.Name,
		ByRole:    ident.Role,
		Comment:   dto.Comment,
		DecidedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to record decision", "error", err, "leave_id", leaveID)
		return internal.NewUnavailableError("leave store unavailable", err)
	}
	if !decided {
		// Lost the race against a concurrent decision.
		s.logger.Warn("decide rejected: concurrent decision won", "leave_id", leaveID)
		return internal.ErrLeaveAlreadyDecided
	}

	s.logger.Info("leave decided",
		"leave_id", leaveID,
		"status", dto.Status,
		"decided_by", ident.ID,
		"decider_role", ident.Role)

	return nil
}
