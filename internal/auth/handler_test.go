package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth HTTP handlers", func() {
	var (
		handler  *Handler
		mockRepo *mockRepository
		tokenGen *JWTTokenGenerator
		service  *Service
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockRepository()
		tokenGen = NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost)
		handler = NewHandler(service)
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		return body
	}

	ginkgo.Describe("AuthMiddleware", func() {
		var protected http.Handler

		ginkgo.BeforeEach(func() {
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := ClaimsFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(claims.UserID).ToNot(gomega.BeZero())
				w.WriteHeader(http.StatusOK)
			}))
		})

		ginkgo.It("rejects a missing token with 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["message"]).To(gomega.Equal("Access token required"))
		})

		ginkgo.It("rejects a malformed Authorization header with 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Token abc")
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("rejects an expired token with 401 and the TOKEN_EXPIRED code", func() {
			expiredGen := NewJWTTokenGenerator(
				"test-access-secret-0123456789abcdef",
				"test-refresh-secret-0123456789abcde",
				-time.Minute, 24*time.Hour)
			token, err := expiredGen.GenerateAccessToken(mockRepo.accounts["admin@example.com"])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["code"]).To(gomega.Equal("TOKEN_EXPIRED"))
		})

		ginkgo.It("rejects a garbage token with 403 and the INVALID_TOKEN code", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer not.a.jwt")
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decode(rec)["code"]).To(gomega.Equal("INVALID_TOKEN"))
		})

		ginkgo.It("rejects a refresh token on the access gate with 403", func() {
			refresh, err := tokenGen.GenerateRefreshToken(mockRepo.accounts["admin@example.com"])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+refresh)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("passes a valid token through without touching the store", func() {
			token, err := tokenGen.GenerateAccessToken(mockRepo.accounts["viewer@example.com"])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			mockRepo.returnError = true // any store call would now fail
			mockRepo.errorToReturn = ErrAccountNotFound

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("Login", func() {
		post := func(payload string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(payload))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)
			return rec
		}

		ginkgo.It("returns the envelope with user and token pair", func() {
			rec := post(`{"email":"admin@example.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			body := decode(rec)
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			data := body["data"].(map[string]interface{})
			gomega.Expect(data["token"]).ToNot(gomega.BeEmpty())
			gomega.Expect(data["refreshToken"]).ToNot(gomega.BeEmpty())
			user := data["user"].(map[string]interface{})
			gomega.Expect(user["email"]).To(gomega.Equal("admin@example.com"))
		})

		ginkgo.It("answers 401 with the same message for unknown email and wrong password", func() {
			recGhost := post(`{"email":"ghost@example.com","password":"correct_password"}`)
			recWrong := post(`{"email":"admin@example.com","password":"wrong"}`)

			gomega.Expect(recGhost.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(recWrong.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(recGhost)["message"]).To(gomega.Equal(decode(recWrong)["message"]))
		})

		ginkgo.It("answers 401 for a deactivated account", func() {
			rec := post(`{"email":"inactive@example.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["message"]).To(gomega.Equal("Account is deactivated"))
		})
	})

	ginkgo.Describe("RefreshToken", func() {
		ginkgo.It("requires the refresh token field", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBufferString(`{}`))
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(decode(rec)["message"]).To(gomega.Equal("Refresh token required"))
		})

		ginkgo.It("answers 401 for an invalid refresh token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
				bytes.NewBufferString(`{"refreshToken":"bogus"}`))
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["message"]).To(gomega.Equal("Invalid refresh token"))
		})

		ginkgo.It("rotates a valid refresh token", func() {
			refresh, err := tokenGen.GenerateRefreshToken(mockRepo.accounts["manager@example.com"])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			payload, _ := json.Marshal(map[string]string{"refreshToken": refresh})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(payload))
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			data := decode(rec)["data"].(map[string]interface{})
			gomega.Expect(data["token"]).ToNot(gomega.BeEmpty())
			gomega.Expect(data["refreshToken"]).ToNot(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("answers 201 with user and tokens", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
				bytes.NewBufferString(`{"email":"fresh@example.com","password":"secret123","name":"Fresh"}`))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			body := decode(rec)
			gomega.Expect(body["message"]).To(gomega.Equal("User registered successfully"))
		})

		ginkgo.It("answers 400 with a code for a duplicate email", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
				bytes.NewBufferString(`{"email":"admin@example.com","password":"secret123","name":"Dup"}`))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(decode(rec)["code"]).To(gomega.Equal("DUPLICATE_EMAIL"))
		})
	})

	ginkgo.Describe("Me", func() {
		ginkgo.It("returns 404 when the account behind a valid token is gone", func() {
			claims := &Claims{UserID: 9999, Email: "gone@example.com", Role: RoleViewer}
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req = req.WithContext(ContextWithClaims(req.Context(), claims))
			rec := httptest.NewRecorder()
			handler.Me(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})
	})
})
