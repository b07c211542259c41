package auth

import (
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Roles and capabilities", func() {
	ginkgo.Describe("Role.Valid", func() {
		ginkgo.It("accepts exactly the three known roles", func() {
			gomega.Expect(RoleAdmin.Valid()).To(gomega.BeTrue())
			gomega.Expect(RoleManager.Valid()).To(gomega.BeTrue())
			gomega.Expect(RoleViewer.Valid()).To(gomega.BeTrue())
			gomega.Expect(Role("superuser").Valid()).To(gomega.BeFalse())
			gomega.Expect(Role("").Valid()).To(gomega.BeFalse())
			gomega.Expect(Role("Admin").Valid()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Role.Can", func() {
		ginkgo.It("grants everything to admin through the wildcard", func() {
			for _, c := range []Capability{
				CapUniversitiesRead, CapUniversitiesWrite, CapUniversitiesDelete,
				CapUsersRead, CapUsersWrite, CapUsersDelete, CapStatsRead,
			} {
				gomega.Expect(RoleAdmin.Can(c)).To(gomega.BeTrue(), string(c))
			}
		})

		ginkgo.It("lets manager write universities but not delete them", func() {
			gomega.Expect(RoleManager.Can(CapUniversitiesRead)).To(gomega.BeTrue())
			gomega.Expect(RoleManager.Can(CapUniversitiesWrite)).To(gomega.BeTrue())
			gomega.Expect(RoleManager.Can(CapUniversitiesDelete)).To(gomega.BeFalse())
		})

		ginkgo.It("keeps manager out of user administration writes", func() {
			gomega.Expect(RoleManager.Can(CapUsersRead)).To(gomega.BeTrue())
			gomega.Expect(RoleManager.Can(CapUsersWrite)).To(gomega.BeFalse())
			gomega.Expect(RoleManager.Can(CapUsersDelete)).To(gomega.BeFalse())
		})

		ginkgo.It("limits viewer to reads and stats", func() {
			gomega.Expect(RoleViewer.Can(CapUniversitiesRead)).To(gomega.BeTrue())
			gomega.Expect(RoleViewer.Can(CapStatsRead)).To(gomega.BeTrue())
			gomega.Expect(RoleViewer.Can(CapUniversitiesWrite)).To(gomega.BeFalse())
			gomega.Expect(RoleViewer.Can(CapUsersRead)).To(gomega.BeFalse())
		})

		ginkgo.It("grants nothing to an unknown role", func() {
			gomega.Expect(Role("ghost").Can(CapUniversitiesRead)).To(gomega.BeFalse())
		})
	})
})

var _ = ginkgo.Describe("Authorizer", func() {
	var (
		authorizer *Authorizer
		okHandler  http.Handler
	)

	ginkgo.BeforeEach(func() {
		authorizer = NewAuthorizer(nil)
		okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(role Role) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if role != "" {
			claims := &Claims{UserID: 1, Email: "x@example.com", Role: role}
			req = req.WithContext(ContextWithClaims(req.Context(), claims))
		}
		return req
	}

	ginkgo.Describe("RequireRoles", func() {
		ginkgo.It("passes a matching role through", func() {
			rec := httptest.NewRecorder()
			authorizer.RequireRoles(RoleAdmin)(okHandler).ServeHTTP(rec, request(RoleAdmin))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("rejects a known principal with the wrong role with 403", func() {
			rec := httptest.NewRecorder()
			authorizer.RequireRoles(RoleAdmin)(okHandler).ServeHTTP(rec, request(RoleViewer))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Insufficient permissions"))
		})

		ginkgo.It("rejects missing claims with 401", func() {
			rec := httptest.NewRecorder()
			authorizer.RequireRoles(RoleAdmin)(okHandler).ServeHTTP(rec, request(""))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("accepts any of several allowed roles", func() {
			rec := httptest.NewRecorder()
			authorizer.RequireRoles(RoleAdmin, RoleManager)(okHandler).ServeHTTP(rec, request(RoleManager))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("RequireCapability", func() {
		ginkgo.It("consults the permission table", func() {
			rec := httptest.NewRecorder()
			authorizer.RequireCapability(CapUniversitiesWrite)(okHandler).ServeHTTP(rec, request(RoleManager))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			rec = httptest.NewRecorder()
			authorizer.RequireCapability(CapUniversitiesWrite)(okHandler).ServeHTTP(rec, request(RoleViewer))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("lets the admin wildcard through every capability gate", func() {
			rec := httptest.NewRecorder()
			authorizer.RequireCapability(CapUniversitiesDelete)(okHandler).ServeHTTP(rec, request(RoleAdmin))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
