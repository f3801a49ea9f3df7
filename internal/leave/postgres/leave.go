package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	internal "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
)

// LeaveRepository implements leave.Repository and stats.Repository using GORM.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(l *leave.Leave) error {
	dm := leave.ToDataModel(l)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	*l = *leave.FromDataModel(dm)
	return nil
}

func (r *LeaveRepository) GetByID(id int64) (*leave.Leave, error) {
	var dm leaveDatamodel.Leave
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		return nil, err
	}
	return leave.FromDataModel(&dm), nil
}

func (r *LeaveRepository) GetByApplicant(applicantID int64) ([]*leave.Leave, error) {
	var dms []*leaveDatamodel.Leave
	err := r.db.Where("applicant_id = ?", applicantID).
		Order("submitted_at DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(dms), nil
}

func (r *LeaveRepository) GetPending(scope auth.LeaveScope) ([]*leave.Leave, error) {
	var dms []*leaveDatamodel.Leave
	err := scoped(r.db, scope).
		Where("status = ?", string(leave.StatusPending)).
		Order("submitted_at DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(dms), nil
}

// Decide performs the pending -> decided transition as a conditional update.
// The status predicate makes concurrent decisions race safely: the loser
// affects zero rows and gets false back.
func (r *LeaveRepository) Decide(id int64, d leave.Decision) (bool, error) {
	role := string(d.ByRole)
	updates := map[string]interface{}{
		"status":           string(d.Status),
		"decided_by_id":    d.ByID,
		"decided_by_name":  d.ByName,
		"decided_by_role":  role,
		"decision_comment": d.Comment,
		"decided_at":       d.DecidedAt,
		"updated_at":       time.Now(),
	}

	res := r.db.Model(&leaveDatamodel.Leave{}).
		Where("id = ? AND status = ?", id, string(leave.StatusPending)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountLeaves counts leaves within scope, optionally filtered by status.
func (r *LeaveRepository) CountLeaves(scope auth.LeaveScope, status *leave.Status) (int64, error) {
	q := scoped(r.db, scope).Model(&leaveDatamodel.Leave{})
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DecisionsByMonth groups decided leaves within scope by the year-month of
// their decision timestamp, in chronological order.
func (r *LeaveRepository) DecisionsByMonth(scope auth.LeaveScope) (map[string]int64, error) {
	monthExpr := "to_char(decided_at, 'YYYY-MM')"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "strftime('%Y-%m', decided_at)"
	}

	rows, err := scoped(r.db, scope).
		Model(&leaveDatamodel.Leave{}).
		Select(monthExpr+" AS month, COUNT(*) AS decisions").
		Where("status IN ?", []string{string(leave.StatusApproved), string(leave.StatusRejected)}).
		Where("decided_at IS NOT NULL").
		Group("month").
		Order("month ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := make(map[string]int64)
	for rows.Next() {
		var month string
		var decisions int64
		if err := rows.Scan(&month, &decisions); err != nil {
			return nil, err
		}
		byMonth[month] = decisions
	}
	return byMonth, rows.Err()
}

func scoped(db *gorm.DB, scope auth.LeaveScope) *gorm.DB {
	q := db
	if scope.ApplicantID != nil {
		q = q.Where("applicant_id = ?", *scope.ApplicantID)
	}
	if scope.ApplicantRole != nil {
		q = q.Where("applicant_role = ?", string(*scope.ApplicantRole))
	}
	return q
}
