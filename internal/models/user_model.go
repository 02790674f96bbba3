package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleFaculty  Role = "faculty"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEngineer, RoleFaculty:
		return true
	}
	return false
}

// CanManageDevices reports whether the role may create, update or delete
// devices. Faculty is read-only.
func (r Role) CanManageDevices() bool {
	return r == RoleAdmin || r == RoleEngineer
}

// User represents an account in the system.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Role         Role               `json:"role" bson:"role"`
	// AffiliatedSchool is only meaningful for faculty accounts.
	AffiliatedSchool *primitive.ObjectID `json:"affiliatedSchool,omitempty" bson:"affiliatedSchool,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// UserView is a user with the affiliated school name resolved for display.
// The password hash is never serialized.
type UserView struct {
	User
	SchoolName string `json:"schoolName,omitempty"`
}
