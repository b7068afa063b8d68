package middleware

import (
	"testing"

	"exam-prep-system/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "user-1",
		Email: "student@example.com",
		Role:  models.RoleStudent,
		Plan:  models.PlanPremium,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignToken("secret", testUser())
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "student@example.com" {
		t.Fatalf("wrong identity claims: %+v", claims)
	}
	if claims.Role != models.RoleStudent || claims.Plan != models.PlanPremium {
		t.Fatalf("wrong role/plan claims: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken("secret", testUser())
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "not.a.token"); err == nil {
		t.Fatal("garbage token must not parse")
	}
}
