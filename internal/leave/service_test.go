package leave

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
)

func TestLeave(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Leave Module Suite")
}

// Mock Repository for testing
type mockLeaveRepository struct {
	leaves         map[int64]*Leave
	nextID         int64
	lastScope      *auth.LeaveScope
	loseDecideRace bool
	returnError    bool
	errorToReturn  error
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{
		leaves: make(map[int64]*Leave),
		nextID: 1,
	}
}

func (m *mockLeaveRepository) Create(l *Leave) error {
	if m.returnError {
		return m.errorToReturn
	}
	l.ID = m.nextID
	m.nextID++
	copied := *l
	m.leaves[l.ID] = &copied
	return nil
}

func (m *mockLeaveRepository) GetByID(id int64) (*Leave, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if l, exists := m.leaves[id]; exists {
		copied := *l
		return &copied, nil
	}
	return nil, internal.ErrLeaveNotFound
}

func (m *mockLeaveRepository) GetByApplicant(applicantID int64) ([]*Leave, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var result []*Leave
	for _, l := range m.leaves {
		if l.ApplicantID == applicantID {
			copied := *l
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockLeaveRepository) GetPending(scope auth.LeaveScope) ([]*Leave, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.lastScope = &scope
	var result []*Leave
	for _, l := range m.leaves {
		if l.Status != StatusPending {
			continue
		}
		if scope.ApplicantRole != nil && l.ApplicantRole != *scope.ApplicantRole {
			continue
		}
		copied := *l
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockLeaveRepository) Decide(id int64, d Decision) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	if m.loseDecideRace {
		return false, nil
	}
	l, exists := m.leaves[id]
	if !exists || l.Status != StatusPending {
		return false, nil
	}
	l.Status = d.Status
	byID := strconv.FormatInt(d.ByID, 10)
	l.DecidedByID = &byID
	l.DecidedByName = &d.ByName
	role := d.ByRole
	l.DecidedByRole = &role
	l.DecisionComment = d.Comment
	decidedAt := d.DecidedAt
	l.DecidedAt = &decidedAt
	return true, nil
}

func (m *mockLeaveRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

func (m *mockLeaveRepository) addPending(applicantID int64, applicantRole auth.Role) *Leave {
	l := &Leave{
		ID:            m.nextID,
		ApplicantID:   applicantID,
		ApplicantName: "Applicant",
		ApplicantRole: applicantRole,
		Reason:        "family matter",
		Type:          TypeCasual,
		StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:        StatusPending,
		SubmittedAt:   time.Now().UTC(),
	}
	m.nextID++
	m.leaves[l.ID] = l
	return l
}

var _ = ginkgo.Describe("LeaveService", func() {
	var (
		service  *Service
		mockRepo *mockLeaveRepository

		student = auth.Identity{ID: 1, Name: "Sari Student", Role: auth.RoleStudent}
		faculty = auth.Identity{ID: 2, Name: "Fina Faculty", Role: auth.RoleFaculty}
		admin   = auth.Identity{ID: 3, Name: "Adi Admin", Role: auth.RoleAdmin}
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockLeaveRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = NewService(mockRepo, logger)
	})

	ginkgo.Describe("Apply", func() {
		validDTO := ApplyDTO{
			Reason:    "medical appointment",
			Type:      "sick",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-04",
		}

		ginkgo.It("should submit a pending leave with the applicant snapshotted", func() {
			l, err := service.Apply(student, validDTO)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(l.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(l.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(l.ApplicantID).To(gomega.Equal(student.ID))
			gomega.Expect(l.ApplicantName).To(gomega.Equal(student.Name))
			gomega.Expect(l.ApplicantRole).To(gomega.Equal(auth.RoleStudent))
			gomega.Expect(l.SubmittedAt).ToNot(gomega.BeZero())
		})

		ginkgo.It("should let faculty apply as well", func() {
			_, err := service.Apply(faculty, validDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should refuse admins", func() {
			_, err := service.Apply(admin, validDTO)
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleNotPermitted))
			gomega.Expect(mockRepo.leaves).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject an unknown leave type", func() {
			dto := validDTO
			dto.Type = "sabbatical"

			_, err := service.Apply(student, dto)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidLeaveType))
		})

		ginkgo.It("should reject a malformed date", func() {
			dto := validDTO
			dto.StartDate = "02-03-2026"

			_, err := service.Apply(student, dto)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidDate))
		})

		ginkgo.It("should reject an end date before the start date", func() {
			dto := validDTO
			dto.StartDate = "2026-03-04"
			dto.EndDate = "2026-03-02"

			_, err := service.Apply(student, dto)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidDateRange))
		})

		ginkgo.It("should accept a single-day leave", func() {
			dto := validDTO
			dto.StartDate = "2026-03-02"
			dto.EndDate = "2026-03-02"

			_, err := service.Apply(student, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should reject a missing reason", func() {
			dto := validDTO
			dto.Reason = ""

			_, err := service.Apply(student, dto)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("ListMine", func() {
		ginkgo.It("should only return the caller's own leaves", func() {
			mockRepo.addPending(student.ID, auth.RoleStudent)
			mockRepo.addPending(student.ID, auth.RoleStudent)
			mockRepo.addPending(faculty.ID, auth.RoleFaculty)

			leaves, err := service.ListMine(student)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(leaves).To(gomega.HaveLen(2))
			for _, l := range leaves {
				gomega.Expect(l.ApplicantID).To(gomega.Equal(student.ID))
			}
		})

		ginkgo.It("should surface a store failure as dependency unavailable", func() {
			mockRepo.setError(errors.New("connection refused"))

			_, err := service.ListMine(student)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnavailable))
		})
	})

	ginkgo.Describe("ListPending", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.addPending(student.ID, auth.RoleStudent)
			mockRepo.addPending(faculty.ID, auth.RoleFaculty)
		})

		ginkgo.It("should refuse students", func() {
			_, err := service.ListPending(student)
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleNotPermitted))
		})

		ginkgo.It("should show faculty only student applications", func() {
			leaves, err := service.ListPending(faculty)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(leaves).To(gomega.HaveLen(1))
			gomega.Expect(leaves[0].ApplicantRole).To(gomega.Equal(auth.RoleStudent))
		})

		ginkgo.It("should show admins everything pending", func() {
			leaves, err := service.ListPending(admin)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(leaves).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("Decide", func() {
		approve := DecideDTO{Status: "approved"}

		ginkgo.It("should approve a pending student leave as faculty", func() {
			l := mockRepo.addPending(student.ID, auth.RoleStudent)

			err := service.Decide(faculty, l.ID, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.leaves[l.ID].Status).To(gomega.Equal(StatusApproved))
			gomega.Expect(mockRepo.leaves[l.ID].DecidedAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("should record a rejection with its comment", func() {
			l := mockRepo.addPending(student.ID, auth.RoleStudent)
			comment := "overlapping exams"

			err := service.Decide(faculty, l.ID, DecideDTO{Status: "rejected", Comment: &comment})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.leaves[l.ID].Status).To(gomega.Equal(StatusRejected))
			gomega.Expect(mockRepo.leaves[l.ID].DecisionComment).To(gomega.Equal(&comment))
		})

		ginkgo.It("should reject a status outside approved/rejected", func() {
			l := mockRepo.addPending(student.ID, auth.RoleStudent)

			err := service.Decide(faculty, l.ID, DecideDTO{Status: "pending"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidDecision))
		})

		ginkgo.It("should report an unknown leave as not found", func() {
			err := service.Decide(faculty, 99999, approve)
			gomega.Expect(err).To(gomega.Equal(internal.ErrLeaveNotFound))
		})

		ginkgo.It("should refuse faculty deciding a faculty leave", func() {
			l := mockRepo.addPending(faculty.ID, auth.RoleFaculty)

			err := service.Decide(faculty, l.ID, approve)
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleNotPermitted))
			gomega.Expect(mockRepo.leaves[l.ID].Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("should let admins decide a faculty leave", func() {
			l := mockRepo.addPending(faculty.ID, auth.RoleFaculty)

			err := service.Decide(admin, l.ID, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.leaves[l.ID].Status).To(gomega.Equal(StatusApproved))
		})

		ginkgo.It("should report a second decision as already decided", func() {
			l := mockRepo.addPending(student.ID, auth.RoleStudent)

			gomega.Expect(service.Decide(faculty, l.ID, approve)).To(gomega.Succeed())

			err := service.Decide(faculty, l.ID, DecideDTO{Status: "rejected"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrLeaveAlreadyDecided))
			gomega.Expect(mockRepo.leaves[l.ID].Status).To(gomega.Equal(StatusApproved))
		})

		ginkgo.It("should report already decided when the conditional update loses a race", func() {
			l := mockRepo.addPending(student.ID, auth.RoleStudent)
			// Another decision lands between the read and the update, so the
			// conditional update affects zero rows.
			mockRepo.loseDecideRace = true

			err := service.Decide(faculty, l.ID, approve)
			gomega.Expect(err).To(gomega.Equal(internal.ErrLeaveAlreadyDecided))
		})

		ginkgo.It("should surface a store failure as dependency unavailable", func() {
			l := mockRepo.addPending(student.ID, auth.RoleStudent)
			mockRepo.setError(errors.New("connection refused"))

			err := service.Decide(faculty, l.ID, approve)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUnavailable))
		})
	})
})
