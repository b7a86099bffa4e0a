package jwt

import (
	"testing"
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/domain/entity"
)

func newTestService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		Issuer:        "booking-test",
		Audience:      "booking-clients",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService("secret")
	user := &entity.User{ID: 3, FullName: "Pat Patient", Email: "pat@example.com", Role: entity.RolePatient}

	token, tokenID, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.TokenID != tokenID {
		t.Errorf("TokenID = %q, want %q", claims.TokenID, tokenID)
	}
	if claims.TokenType != AccessToken {
		t.Errorf("TokenType = %q", claims.TokenType)
	}
	caller := claims.Caller()
	if caller.UserID != 3 || caller.Role != entity.RolePatient {
		t.Errorf("Caller() = %+v", caller)
	}
	if claims.FullName != "Pat Patient" || claims.Email != "pat@example.com" {
		t.Errorf("unexpected identity claims %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	user := &entity.User{ID: 1, Email: "a@example.com", Role: entity.RoleAdmin}

	foreign, _, err := newTestService("other-secret").GenerateRefreshToken(user)
	if err != nil {
		t.Fatal(err)
	}

	wrongAudience := NewJWTService(config.JWTConfig{
		Secret: "secret", Issuer: "booking-test", Audience: "someone-else", AccessExpiry: time.Minute,
	})
	otherAud, _, err := wrongAudience.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}

	expiredSvc := NewJWTService(config.JWTConfig{
		Secret: "secret", Issuer: "booking-test", Audience: "booking-clients", AccessExpiry: -time.Minute,
	})
	expired, _, err := expiredSvc.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}

	svc := newTestService("secret")
	tests := map[string]string{
		"wrong secret":   foreign,
		"wrong audience": otherAud,
		"expired":        expired,
		"garbage":        "not-a-token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ValidateToken(token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTokenKeys(t *testing.T) {
	if got := AccessTokenKey(7, "abc"); got != "access_token:7:abc" {
		t.Errorf("AccessTokenKey() = %q", got)
	}
	if got := RefreshTokenKey(7, "abc"); got != "refresh_token:7:abc" {
		t.Errorf("RefreshTokenKey() = %q", got)
	}
}
