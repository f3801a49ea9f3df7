package leave

import "time"

// Leave is the persistence model for the leaves table.
//
// Applicant name and role are denormalized snapshots taken at submission
// time: listings and decisions show the applicant as they were when the
// leave was filed, independent of later profile edits.
type Leave struct {
	ID            int64  `gorm:"primaryKey"`
	ApplicantID   int64  `gorm:"column:applicant_id;index;not null"`
	ApplicantName string `gorm:"column:applicant_name;not null"`
	ApplicantRole string `gorm:"column:applicant_role;index;not null"`

	Reason        string    `gorm:"not null"`
	LeaveType     string    `gorm:"column:leave_type;not null"`
	StartDate     time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate       time.Time `gorm:"column:end_date;type:date;not null"`
	AttachmentURL *string   `gorm:"column:attachment_url"`

	Status          string     `gorm:"column:status;default:pending;index"`
	DecidedByID     *int64     `gorm:"column:decided_by_id"`
	DecidedByName   *string    `gorm:"column:decided_by_name"`
	DecidedByRole   *string    `gorm:"column:decided_by_role"`
	DecisionComment *string    `gorm:"column:decision_comment"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`

	SubmittedAt time.Time `gorm:"column:submitted_at"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Leave) TableName() string {
	return "leaves"
}
