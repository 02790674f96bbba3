package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Custom errors for the AuthService
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response does not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired authentication token")
)

// authClaims is the JWT payload: the registered subject carries the user ID.
type authClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// authService implements the AuthService interface.
type authService struct {
	userRepo   db.UserRepository
	schoolRepo db.SchoolRepository
	secret     []byte
	tokenTTL   time.Duration
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo db.UserRepository, schoolRepo db.SchoolRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		schoolRepo: schoolRepo,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
	}
}

// Login checks the email/password pair and mints a bearer token.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := authClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// VerifyToken validates the signature and expiry and extracts the actor.
func (s *authService) VerifyToken(tokenString string) (Actor, error) {
	var claims authClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return Actor{}, ErrInvalidToken
	}

	return Actor{ID: claims.Subject, Role: claims.Role}, nil
}

// GetProfile returns the actor's own profile with the affiliated school name
// resolved.
func (s *authService) GetProfile(ctx context.Context, actorID string) (*models.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	view := &models.UserView{User: *user}
	if user.AffiliatedSchool != nil {
		if school, err := s.schoolRepo.GetByID(ctx, user.AffiliatedSchool.Hex()); err == nil {
			view.SchoolName = school.Name
		}
	}
	return view, nil
}
