package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/university-directory/internal"
	"github.com/frahmantamala/university-directory/internal/auth"
	"github.com/frahmantamala/university-directory/internal/university"
	"github.com/frahmantamala/university-directory/internal/user"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

// stubAccountRepository holds one active account, enough to drive the
// auth middleware through the real route table.
type stubAccountRepository struct {
	account *auth.Account
}

func (s *stubAccountRepository) GetCredentials(email string) (*auth.Account, string, error) {
	if email != s.account.Email {
		return nil, "", auth.ErrAccountNotFound
	}
	return s.account, "", nil
}

func (s *stubAccountRepository) GetByID(userID int64) (*auth.Account, error) {
	if userID != s.account.ID {
		return nil, auth.ErrAccountNotFound
	}
	return s.account, nil
}

func (s *stubAccountRepository) GetPasswordHash(userID int64) (string, error) {
	return "", auth.ErrAccountNotFound
}

func (s *stubAccountRepository) Create(email, name string, role auth.Role, passwordHash string) (*auth.Account, error) {
	return nil, auth.ErrDuplicateEmail
}

func (s *stubAccountRepository) UpdateLastLogin(userID int64, at time.Time) error { return nil }

func (s *stubAccountRepository) UpdatePassword(userID int64, passwordHash string) error { return nil }

var _ = ginkgo.Describe("Route table", func() {
	var (
		router      *chi.Mux
		tokenGen    *auth.JWTTokenGenerator
		accessToken string
	)

	ginkgo.BeforeEach(func() {
		account := &auth.Account{
			ID:       1,
			Email:    "admin@example.com",
			Name:     "Admin",
			Role:     auth.RoleAdmin,
			IsActive: true,
		}
		repo := &stubAccountRepository{account: account}

		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			15*time.Minute,
			time.Hour,
		)
		authService := auth.NewService(repo, tokenGen, bcrypt.MinCost)

		var err error
		accessToken, err = tokenGen.GenerateAccessToken(account)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		router = chi.NewRouter()
		RegisterAllRoutes(router, RouterDeps{
			AuthHandler:       auth.NewHandler(authService),
			UserHandler:       user.NewHandler(nil),
			UniversityHandler: university.NewHandler(nil),
			Config:            &internal.Config{},
			Logger:            slog.Default(),
		})
	})

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.Describe("POST /api/auth/logout", func() {
		ginkgo.It("succeeds for a bearer-authenticated user", func() {
			rec := do(http.MethodPost, "/api/auth/logout", accessToken)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			gomega.Expect(body["message"]).To(gomega.Equal("Logout successful"))
		})

		ginkgo.It("rejects a request without a token", func() {
			rec := do(http.MethodPost, "/api/auth/logout", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))

			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["message"]).To(gomega.Equal("Access token required"))
		})
	})

	ginkgo.Describe("GET /api/auth/me", func() {
		ginkgo.It("returns the authenticated profile", func() {
			rec := do(http.MethodGet, "/api/auth/me", accessToken)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
