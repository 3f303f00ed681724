package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medcare-api/config"
	"medcare-api/internal/domain/entity"
	"medcare-api/pkg/jwt"
	"medcare-api/pkg/response"

	"github.com/google/uuid"
)

func newJWTService(accessTTL time.Duration) *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "medcare-test",
		AccessExpiry:  accessTTL,
		RefreshExpiry: time.Hour,
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestAuthenticate(t *testing.T) {
	svc := newJWTService(time.Minute)
	identity := jwt.Identity{UserID: uuid.New(), Email: "pat@example.com", Role: string(entity.RolePatient)}

	access, err := svc.GenerateAccessToken(identity)
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	refresh, err := svc.GenerateRefreshToken(identity)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	expired, err := newJWTService(-time.Minute).GenerateAccessToken(identity)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Invalid authorization header format"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Access token expired"},
		{"garbage", "Bearer not-a-jwt", http.StatusForbidden, "Invalid access token"},
		{"refresh token", "Bearer " + refresh, http.StatusForbidden, "Invalid access token"},
		{"valid", "Bearer " + access, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			var gotRole entity.Role
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetUserIDFromContext(r.Context())
				gotRole, _ = GetRoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/patient/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewAuthMiddleware(svc).Authenticate(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus != http.StatusOK {
				body := decodeBody(t, rec)
				if !body.Error || body.ErrorMsg != tt.wantMsg {
					t.Errorf("unexpected body %+v", body)
				}
				return
			}
			if gotID != identity.UserID || gotRole != entity.RolePatient {
				t.Errorf("context identity not set: %v %v", gotID, gotRole)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(entity.RoleStaff, entity.RoleAdmin)(next)

	tests := []struct {
		name       string
		role       entity.Role
		withRole   bool
		wantStatus int
	}{
		{"no identity", "", false, http.StatusUnauthorized},
		{"patient", entity.RolePatient, true, http.StatusForbidden},
		{"staff", entity.RoleStaff, true, http.StatusNoContent},
		{"admin", entity.RoleAdmin, true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/staff/patients", nil)
			if tt.withRole {
				req = req.WithContext(WithIdentity(req.Context(), uuid.New(), tt.role))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
