package core

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Custom errors for the UserService
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("a user with this email already exists")
	ErrUsernameExists    = errors.New("a user with this username already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrSelfDelete        = errors.New("cannot delete your own account")
	ErrSchoolNotFoundRef = errors.New("affiliated school not found")
)

// userService implements the UserService interface. All operations are
// admin-only.
type userService struct {
	userRepo   db.UserRepository
	schoolRepo db.SchoolRepository
	bcryptCost int
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, schoolRepo db.SchoolRepository, bcryptCost int) UserService {
	return &userService{
		userRepo:   userRepo,
		schoolRepo: schoolRepo,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) ListUsers(ctx context.Context, actor Actor) ([]models.UserView, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	schoolIDs := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, u := range users {
		if u.AffiliatedSchool != nil && !seen[*u.AffiliatedSchool] {
			seen[*u.AffiliatedSchool] = true
			schoolIDs = append(schoolIDs, *u.AffiliatedSchool)
		}
	}
	schools, err := s.schoolRepo.FindByIDs(ctx, schoolIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schools for users: %w", err)
	}
	nameByID := make(map[primitive.ObjectID]string, len(schools))
	for _, sc := range schools {
		nameByID[sc.ID] = sc.Name
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		v := models.UserView{User: u}
		if u.AffiliatedSchool != nil {
			v.SchoolName = nameByID[*u.AffiliatedSchool]
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req models.CreateUserRequest) (*models.UserView, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if !req.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	if err := s.checkDuplicate(ctx, req.Username, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	var schoolName string
	if req.Role == models.RoleFaculty && req.AffiliatedSchool != "" {
		school, err := s.schoolRepo.GetByID(ctx, req.AffiliatedSchool)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrSchoolNotFoundRef
			}
			return nil, fmt.Errorf("failed to resolve affiliated school: %w", err)
		}
		user.AffiliatedSchool = &school.ID
		schoolName = school.Name
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &models.UserView{User: *user, SchoolName: schoolName}, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, userID string, req models.UpdateUserRequest) (*models.UserView, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user for update: %w", err)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil || req.Email != nil {
		if err := s.checkDuplicate(ctx, user.Username, user.Email, userID); err != nil {
			return nil, err
		}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		user.Role = *req.Role
	}

	var schoolName string
	if req.AffiliatedSchool != nil {
		if *req.AffiliatedSchool == "" {
			user.AffiliatedSchool = nil
		} else {
			school, err := s.schoolRepo.GetByID(ctx, *req.AffiliatedSchool)
			if err != nil {
				if errors.Is(err, db.ErrNotFound) {
					return nil, ErrSchoolNotFoundRef
				}
				return nil, fmt.Errorf("failed to resolve affiliated school: %w", err)
			}
			user.AffiliatedSchool = &school.ID
			schoolName = school.Name
		}
	}

	// School affiliation only applies to faculty accounts.
	if user.Role != models.RoleFaculty {
		user.AffiliatedSchool = nil
		schoolName = ""
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if schoolName == "" && user.AffiliatedSchool != nil {
		if school, err := s.schoolRepo.GetByID(ctx, user.AffiliatedSchool.Hex()); err == nil {
			schoolName = school.Name
		}
	}
	return &models.UserView{User: *user, SchoolName: schoolName}, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, userID string) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if actor.ID == userID {
		return ErrSelfDelete
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// checkDuplicate enforces username and email uniqueness, ignoring the record
// identified by excludeID.
func (s *userService) checkDuplicate(ctx context.Context, username, email, excludeID string) error {
	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email, excludeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check for duplicate user: %w", err)
	}
	if existing.Email == email {
		return ErrEmailExists
	}
	return ErrUsernameExists
}
