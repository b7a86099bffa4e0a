package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		Issuer:        "test",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
}

// echoCaller writes the caller id and role seen by the final handler.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	w.Header().Set("X-Caller-Role", caller.Role.String())
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	jwtService := newJWT()
	user := &entity.User{ID: 7, FullName: "Dana", Email: "dana@example.com", Role: entity.RoleDoctor}

	access, accessID, err := jwtService.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}
	mr.Set(jwt.AccessTokenKey(user.ID, accessID), "1")

	revoked, _, err := jwtService.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}
	refresh, refreshID, err := jwtService.GenerateRefreshToken(user)
	if err != nil {
		t.Fatal(err)
	}
	mr.Set(jwt.RefreshTokenKey(user.ID, refreshID), "1")

	handler := NewAuthMiddleware(jwtService, client, quietLogger()).Authenticate(echoCaller)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"not whitelisted", "Bearer " + revoked, http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusOK},
		{"lower case scheme", "bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Header().Get("X-Caller-Role") != "Doctor" {
				t.Errorf("caller role = %q", rec.Header().Get("X-Caller-Role"))
			}
		})
	}

	t.Run("redis down", func(t *testing.T) {
		mr.Close()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		claims *jwt.Claims
		status int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"patient", &jwt.Claims{UserID: 1, Role: entity.RolePatient}, http.StatusForbidden},
		{"doctor", &jwt.Claims{UserID: 2, Role: entity.RoleDoctor}, http.StatusOK},
		{"admin", &jwt.Claims{UserID: 5, Role: entity.RoleAdmin}, http.StatusOK},
	}
	handler := RequireAdminOrDoctor(echoCaller)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/timeslots", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, nil)
	defer rl.Stop()
	handler := rl.Limit(echoCaller)

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = ip + ":40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := call("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, code)
		}
	}
	if code := call("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", code)
	}
	if code := call("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}

	// Stop is safe to call twice.
	rl.Stop()
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)
	defer rl.Stop()
	handler := rl.Limit(echoCaller)

	codes := make([]int, 0, 3)
	for _, forwarded := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK {
		t.Fatalf("first status = %d, want 200", codes[0])
	}
	for i, code := range codes[1:] {
		if code != http.StatusTooManyRequests {
			t.Errorf("request %d with rotated header status = %d, want 429", i+1, code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		trusted   []string
		remote    string
		forwarded string
		want      string
	}{
		{"no header", nil, "192.0.2.10:5555", "", "192.0.2.10"},
		{"untrusted peer", nil, "192.0.2.10:5555", "203.0.113.7", "192.0.2.10"},
		{"trusted peer", []string{"10.0.0.1"}, "10.0.0.1:5555", "203.0.113.7", "203.0.113.7"},
		{"trusted cidr", []string{"10.0.0.0/8"}, "10.1.2.3:5555", "203.0.113.7", "203.0.113.7"},
		{"spoofed leftmost", []string{"10.0.0.0/8"}, "10.0.0.1:5555", "1.2.3.4, 203.0.113.7, 10.0.0.2", "203.0.113.7"},
		{"trusted peer without header", []string{"10.0.0.1"}, "10.0.0.1:5555", "", "10.0.0.1"},
		{"invalid entry ignored", []string{"not-an-ip"}, "192.0.2.10:5555", "203.0.113.7", "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(1, 1, tt.trusted)
			defer rl.Stop()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := rl.clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"any", []string{"*"}, "https://evil.example", "*"},
		{"listed", []string{"https://app.example"}, "https://app.example", "https://app.example"},
		{"unlisted", []string{"https://app.example"}, "https://evil.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCORSMiddleware(tt.allowed).Handle(echoCaller)
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/doctors", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("preflight status = %d", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.want)
			}
			if rec.Header().Get("X-Caller-Role") != "" {
				t.Error("preflight reached the handler")
			}
		})
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	handler := NewLoggingMiddleware(quietLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}
