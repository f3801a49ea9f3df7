package leave

import (
	"strconv"
	"time"

	"github.com/frahmantamala/leave-management/internal/auth"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// Status is the lifecycle state of a leave application. The only legal
// transitions are pending -> approved and pending -> rejected; both are
// terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Type is the closed set of leave categories.
type Type string

const (
	TypeSick   Type = "sick"
	TypeCasual Type = "casual"
	TypeOther  Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSick, TypeCasual, TypeOther:
		return true
	}
	return false
}

// Leave is a leave application. Applicant name and role are snapshots taken
// at submission time, kept deliberately so history stays accurate when the
// user record changes later.
type Leave struct {
	ID            int64     `json:"id,string"`
	ApplicantID   int64     `json:"applicant_id,string"`
	ApplicantName string    `json:"applicant_name"`
	ApplicantRole auth.Role `json:"applicant_role"`

	Reason        string    `json:"reason"`
	Type          Type      `json:"type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`

	Status Status `json:"status"`
	// DecidedByID is formatted as the opaque string clients see; the store
	// keeps the numeric key.
	DecidedByID     *string    `json:"decided_by_id,omitempty"`
	DecidedByName   *string    `json:"decided_by_name,omitempty"`
	DecidedByRole   *auth.Role `json:"decided_by_role,omitempty"`
	DecisionComment *string    `json:"decision_comment,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanBeDecided reports whether the leave is still awaiting a decision.
func (l *Leave) CanBeDecided() bool {
	return l.Status == StatusPending
}

// Decision is the data written when a leave leaves the pending state. All
// fields are set together or not at all.
type Decision struct {
	Status    Status
	ByID      int64
	ByName    string
	ByRole    auth.Role
	Comment   *string
	DecidedAt time.Time
}

func ToDataModel(l *Leave) *leaveDatamodel.Leave {
	dm := &leaveDatamodel.Leave{
		ID:            l.ID,
		ApplicantID:   l.ApplicantID,
		ApplicantName: l.ApplicantName,
		ApplicantRole: string(l.ApplicantRole),
		Reason:        l.Reason,
		LeaveType:     string(l.Type),
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		AttachmentURL: l.AttachmentURL,
		Status:        string(l.Status),
		DecidedByName: l.DecidedByName,
		DecidedAt:     l.DecidedAt,
		SubmittedAt:   l.SubmittedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.DecidedByID != nil {
		if id, err := strconv.ParseInt(*l.DecidedByID, 10, 64); err == nil {
			dm.DecidedByID = &id
		}
	}
	if l.DecidedByRole != nil {
		role := string(*l.DecidedByRole)
		dm.DecidedByRole = &role
	}
	dm.DecisionComment = l.DecisionComment
	return dm
}

func FromDataModel(dm *leaveDatamodel.Leave) *Leave {
	l := &Leave{
		ID:              dm.ID,
		ApplicantID:     dm.ApplicantID,
		ApplicantName:   dm.ApplicantName,
		ApplicantRole:   auth.Role(dm.ApplicantRole),
		Reason:          dm.Reason,
		Type:            Type(dm.LeaveType),
		StartDate:       dm.StartDate,
		EndDate:         dm.EndDate,
		AttachmentURL:   dm.AttachmentURL,
		Status:          Status(dm.Status),
		DecidedByName:   dm.DecidedByName,
		DecisionComment: dm.DecisionComment,
		DecidedAt:       dm.DecidedAt,
		SubmittedAt:     dm.SubmittedAt,
		CreatedAt:       dm.CreatedAt,
		UpdatedAt:       dm.UpdatedAt,
	}
	if dm.DecidedByID != nil {
		id := strconv.FormatInt(*dm.DecidedByID, 10)
		l.DecidedByID = &id
	}
	if dm.DecidedByRole != nil {
		role := auth.Role(*dm.DecidedByRole)
		l.DecidedByRole = &role
	}
	return l
}

func FromDataModelSlice(dms []*leaveDatamodel.Leave) []*Leave {
	result := make([]*Leave, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
