package leave

import (
	"time"

	internal "github.com/frahmantamala/leave-management/internal"
)

// DateLayout is the calendar-date format accepted on the wire.
const DateLayout = "2006-01-02"

// ApplyDTO is the request payload for submitting a leave application.
// Dates arrive as ISO calendar-date strings and are parsed in the service.
type ApplyDTO struct {
	Reason        string  `json:"reason"`
	Type          string  `json:"type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

func (d ApplyDTO) Validate() error {
	if d.Reason == "" {
		return internal.NewValidationError("reason is required", internal.ErrCodeValidationFailed)
	}
	if !Type(d.Type).Valid() {
		return internal.NewValidationError("type must be one of sick, casual, other", internal.ErrCodeInvalidLeaveType)
	}
	if d.StartDate == "" || d.EndDate == "" {
		return internal.NewValidationError("start_date and end_date are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ParseDates parses and orders the calendar dates of the request.
func (d ApplyDTO) ParseDates() (start, end time.Time, err error) {
	start, perr := time.Parse(DateLayout, d.StartDate)
	if perr != nil {
		return time.Time{}, time.Time{}, internal.NewValidationError("invalid date format, use YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	end, perr = time.Parse(DateLayout, d.EndDate)
	if perr != nil {
		return time.Time{}, time.Time{}, internal.NewValidationError("invalid date format, use YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, internal.NewValidationError("end date must not be before start date", internal.ErrCodeInvalidDateRange)
	}
	return start, end, nil
}

// DecideDTO is the request payload for deciding a pending leave.
type DecideDTO struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment,omitempty"`
}

func (d DecideDTO) Validate() error {
	s := Status(d.Status)
	if s != StatusApproved && s != StatusRejected {
		return internal.NewValidationError("status must be either approved or rejected", internal.ErrCodeInvalidDecision)
	}
	return nil
}

// ApplyResponse is returned after a successful submission.
type ApplyResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}
