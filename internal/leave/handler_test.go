package leave_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
)

type sqliteLeave struct {
	ID              int64      `gorm:"primaryKey"`
	ApplicantID     int64      `gorm:"column:applicant_id;not null"`
	ApplicantName   string     `gorm:"column:applicant_name;not null"`
	ApplicantRole   string     `gorm:"column:applicant_role;not null"`
	Reason          string     `gorm:"not null"`
	LeaveType       string     `gorm:"column:leave_type;not null"`
	StartDate       time.Time  `gorm:"column:start_date"`
	EndDate         time.Time  `gorm:"column:end_date"`
	AttachmentURL   *string    `gorm:"column:attachment_url"`
	Status          string     `gorm:"column:status;default:'pending'"`
	DecidedByID     *int64     `gorm:"column:decided_by_id"`
	DecidedByName   *string    `gorm:"column:decided_by_name"`
	DecidedByRole   *string    `gorm:"column:decided_by_role"`
	DecisionComment *string    `gorm:"column:decision_comment"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (sqliteLeave) TableName() string {
	return "leaves"
}

var _ = Describe("Leave Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *leave.Handler
		router  *chi.Mux

		// identity injected for the next request; nil means unauthenticated
		ident *auth.Identity

		student = auth.Identity{ID: 1, Name: "Sari Student", Role: auth.RoleStudent}
		faculty = auth.Identity{ID: 2, Name: "Fina Faculty", Role: auth.RoleFaculty}
	)

	serve := func(method, target string, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, target, reader)
		if ident != nil {
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), ident))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	applyBody := map[string]string{
		"reason":     "medical appointment",
		"type":       "sick",
		"start_date": "2026-03-02",
		"end_date":   "2026-03-04",
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&sqliteLeave{})
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo := leavePostgres.NewLeaveRepository(db)
		service := leave.NewService(repo, slogger)
		handler = leave.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/leaves/apply", handler.Apply)
		router.Get("/leaves/my", handler.MyLeaves)
		router.Get("/leaves/pending", handler.Pending)
		router.Post("/leaves/{id}/decide", handler.Decide)

		ident = nil
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("POST /leaves/apply", func() {
		It("should reject an unauthenticated request", func() {
			w := serve(http.MethodPost, "/leaves/apply", applyBody)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should submit a leave and return its id as a string", func() {
			ident = &student
			w := serve(http.MethodPost, "/leaves/apply", applyBody)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response leave.ApplyResponse
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.OK).To(BeTrue())
			Expect(response.ID).NotTo(BeEmpty())
		})

		It("should map a validation failure to 400", func() {
			ident = &student
			bad := map[string]string{
				"reason":     "medical appointment",
				"type":       "sick",
				"start_date": "2026-03-04",
				"end_date":   "2026-03-02",
			}

			w := serve(http.MethodPost, "/leaves/apply", bad)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /leaves/my", func() {
		It("should list the caller's leaves with string ids", func() {
			ident = &student
			Expect(serve(http.MethodPost, "/leaves/apply", applyBody).Code).To(Equal(http.StatusOK))

			w := serve(http.MethodGet, "/leaves/my", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var response []map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response).To(HaveLen(1))
			Expect(response[0]["id"]).To(BeAssignableToTypeOf(""))
			Expect(response[0]["status"]).To(Equal("pending"))
		})
	})

	Describe("POST /leaves/{id}/decide", func() {
		var leaveID string

		BeforeEach(func() {
			ident = &student
			w := serve(http.MethodPost, "/leaves/apply", applyBody)
			Expect(w.Code).To(Equal(http.StatusOK))

			var response leave.ApplyResponse
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			leaveID = response.ID
		})

		It("should let faculty approve a student leave", func() {
			ident = &faculty
			w := serve(http.MethodPost, "/leaves/"+leaveID+"/decide", map[string]string{"status": "approved"})
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should map a second decision to 400", func() {
			ident = &faculty
			Expect(serve(http.MethodPost, "/leaves/"+leaveID+"/decide", map[string]string{"status": "approved"}).Code).To(Equal(http.StatusOK))

			w := serve(http.MethodPost, "/leaves/"+leaveID+"/decide", map[string]string{"status": "rejected"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var response map[string]map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response["error"]["code"]).To(Equal("LEAVE_ALREADY_DECIDED"))
		})

		It("should map a student decider to 403", func() {
			ident = &student
			w := serve(http.MethodPost, "/leaves/"+leaveID+"/decide", map[string]string{"status": "approved"})
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should map an id that resolves to nothing to 404", func() {
			ident = &faculty
			w := serve(http.MethodPost, "/leaves/not-a-number/decide", map[string]string{"status": "approved"})
			Expect(w.Code).To(Equal(http.StatusNotFound))

			w = serve(http.MethodPost, "/leaves/99999/decide", map[string]string{"status": "approved"})
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
