package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RoleAuthorization", func() {
	var (
		ra   *RoleAuthorization
		next http.Handler
	)

	ginkgo.BeforeEach(func() {
		ra = NewRoleAuthorization(slog.New(slog.NewTextHandler(io.Discard, nil)))
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	serveAs := func(mw func(http.Handler) http.Handler, ident *Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/leaves/pending", nil)
		if ident != nil {
			req = req.WithContext(ContextWithIdentity(req.Context(), ident))
		}
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		return w
	}

	ginkgo.It("should reject a request with no resolved identity", func() {
		w := serveAs(ra.RequireReviewer(), nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should reject a role without the grant", func() {
		w := serveAs(ra.RequireReviewer(), &Identity{ID: 1, Role: RoleStudent})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("should pass faculty and admin through", func() {
		gomega.Expect(serveAs(ra.RequireReviewer(), &Identity{ID: 2, Role: RoleFaculty}).Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(serveAs(ra.RequireReviewer(), &Identity{ID: 3, Role: RoleAdmin}).Code).To(gomega.Equal(http.StatusOK))
	})
})
