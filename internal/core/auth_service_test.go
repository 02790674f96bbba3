package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"edutrack-backend-go/internal/models"
)

func newAuthTestEnv(t *testing.T) (AuthService, *fakeUserRepo, models.User) {
	t.Helper()

	users := newFakeUserRepo()
	schools := newFakeSchoolRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     "sam",
		Email:        "sam@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleEngineer,
	}
	users.users[user.ID.Hex()] = user

	return NewAuthService(users, schools, "test-secret", time.Hour), users, user
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	service, _, user := newAuthTestEnv(t)

	token, loggedIn, err := service.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("user ID = %s, want %s", loggedIn.ID.Hex(), user.ID.Hex())
	}

	actor, err := service.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if actor.ID != user.ID.Hex() || actor.Role != models.RoleEngineer {
		t.Errorf("actor = %+v, want ID %s role engineer", actor, user.ID.Hex())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _, user := newAuthTestEnv(t)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"unknown email", models.LoginRequest{Email: "nobody@example.com", Password: "correct horse"}},
		{"wrong password", models.LoginRequest{Email: user.Email, Password: "wrong"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Both failure modes must collapse into the same error.
			_, _, err := service.Login(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestVerifyTokenRejectsInvalidInput(t *testing.T) {
	service, _, user := newAuthTestEnv(t)

	if _, err := service.VerifyToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken for garbage", err)
	}

	// A token signed with a different secret must not verify.
	otherRepo := newFakeUserRepo()
	otherRepo.users[user.ID.Hex()] = user
	other := NewAuthService(otherRepo, newFakeSchoolRepo(), "other-secret", time.Hour)
	forged, _, err := other.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login with other secret: %v", err)
	}
	if _, err := service.VerifyToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken for a foreign signature", err)
	}
}

func TestGetProfileResolvesSchoolName(t *testing.T) {
	users := newFakeUserRepo()
	schools := newFakeSchoolRepo()
	service := NewAuthService(users, schools, "test-secret", time.Hour)

	school := models.School{ID: primitive.NewObjectID(), Name: "Hillside High"}
	schools.schools[school.ID.Hex()] = school

	faculty := models.User{
		ID:               primitive.NewObjectID(),
		Username:         "pat",
		Email:            "pat@example.com",
		Role:             models.RoleFaculty,
		AffiliatedSchool: &school.ID,
	}
	users.users[faculty.ID.Hex()] = faculty

	profile, err := service.GetProfile(context.Background(), faculty.ID.Hex())
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.SchoolName != school.Name {
		t.Errorf("school name = %q, want %q", profile.SchoolName, school.Name)
	}

	if _, err := service.GetProfile(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
