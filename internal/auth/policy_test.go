package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/frahmantamala/leave-management/internal"
)

var _ = ginkgo.Describe("Policy", func() {
	ginkgo.Describe("Allowed", func() {
		// The whole matrix, spelled out so any change to policy.go has to be
		// made here too on purpose.
		expected := map[Role]map[Action]bool{
			RoleStudent: {
				ActionApplyLeave:         true,
				ActionViewOwnLeaves:      true,
				ActionViewPendingQueue:   false,
				ActionDecideStudentLeave: false,
				ActionDecideFacultyLeave: false,
				ActionViewStats:          true,
			},
			RoleFaculty: {
				ActionApplyLeave:         true,
				ActionViewOwnLeaves:      true,
				ActionViewPendingQueue:   true,
				ActionDecideStudentLeave: true,
				ActionDecideFacultyLeave: false,
				ActionViewStats:          true,
			},
			RoleAdmin: {
				ActionApplyLeave:         false,
				ActionViewOwnLeaves:      true,
				ActionViewPendingQueue:   true,
				ActionDecideStudentLeave: true,
				ActionDecideFacultyLeave: true,
				ActionViewStats:          true,
			},
		}

		ginkgo.It("should match the expected grant for every role and action", func() {
			for _, role := range Roles {
				for _, action := range Actions {
					gomega.Expect(Allowed(role, action)).To(
						gomega.Equal(expected[role][action]),
						"role %s action %s", role, action)
				}
			}
		})

		ginkgo.It("should grant nothing to an unknown role", func() {
			for _, action := range Actions {
				gomega.Expect(Allowed(Role("manager"), action)).To(gomega.BeFalse())
			}
		})
	})

	ginkgo.Describe("DecideAction", func() {
		ginkgo.It("should require the faculty-decide grant for faculty applicants", func() {
			gomega.Expect(DecideAction(RoleFaculty)).To(gomega.Equal(ActionDecideFacultyLeave))
		})

		ginkgo.It("should require the student-decide grant otherwise", func() {
			gomega.Expect(DecideAction(RoleStudent)).To(gomega.Equal(ActionDecideStudentLeave))
		})
	})

	ginkgo.Describe("PendingScope", func() {
		ginkgo.It("should refuse students", func() {
			_, err := PendingScope(Identity{ID: 1, Role: RoleStudent})
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleNotPermitted))
		})

		ginkgo.It("should narrow faculty to student applications", func() {
			scope, err := PendingScope(Identity{ID: 2, Role: RoleFaculty})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.ApplicantID).To(gomega.BeNil())
			gomega.Expect(scope.ApplicantRole).ToNot(gomega.BeNil())
			gomega.Expect(*scope.ApplicantRole).To(gomega.Equal(RoleStudent))
		})

		ginkgo.It("should leave admins unconstrained", func() {
			scope, err := PendingScope(Identity{ID: 3, Role: RoleAdmin})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.ApplicantID).To(gomega.BeNil())
			gomega.Expect(scope.ApplicantRole).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("StatsScope", func() {
		ginkgo.It("should narrow students to their own applications", func() {
			scope := StatsScope(Identity{ID: 7, Role: RoleStudent})
			gomega.Expect(scope.ApplicantID).ToNot(gomega.BeNil())
			gomega.Expect(*scope.ApplicantID).To(gomega.Equal(int64(7)))
			gomega.Expect(scope.ApplicantRole).To(gomega.BeNil())
		})

		ginkgo.It("should narrow faculty to student applications", func() {
			scope := StatsScope(Identity{ID: 2, Role: RoleFaculty})
			gomega.Expect(scope.ApplicantID).To(gomega.BeNil())
			gomega.Expect(scope.ApplicantRole).ToNot(gomega.BeNil())
			gomega.Expect(*scope.ApplicantRole).To(gomega.Equal(RoleStudent))
		})

		ginkgo.It("should leave admins unconstrained", func() {
			scope := StatsScope(Identity{ID: 3, Role: RoleAdmin})
			gomega.Expect(scope.ApplicantID).To(gomega.BeNil())
			gomega.Expect(scope.ApplicantRole).To(gomega.BeNil())
		})
	})
})
