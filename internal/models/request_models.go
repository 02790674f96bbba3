package models

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the payload for creating a user (admin only).
type CreateUserRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	Role             Role   `json:"role" binding:"required"`
	AffiliatedSchool string `json:"affiliatedSchool,omitempty"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Username         *string `json:"username,omitempty"`
	Email            *string `json:"email,omitempty"`
	Password         *string `json:"password,omitempty"`
	Role             *Role   `json:"role,omitempty"`
	AffiliatedSchool *string `json:"affiliatedSchool,omitempty"`
}

// CreateRegionRequest is the payload for creating a region.
type CreateRegionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateRegionRequest is a partial region update.
type UpdateRegionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateSchoolRequest is the payload for creating a school.
type CreateSchoolRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Region  string `json:"region" binding:"required"`
}

// UpdateSchoolRequest is a partial school update.
type UpdateSchoolRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Region  *string `json:"region,omitempty"`
}

// CreateLocationRequest is the payload for creating a location.
type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Floor       *int   `json:"floor,omitempty"`
	Building    string `json:"building,omitempty"`
	School      string `json:"school" binding:"required"`
}

// UpdateLocationRequest is a partial location update.
type UpdateLocationRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Floor       *int    `json:"floor,omitempty"`
	Building    *string `json:"building,omitempty"`
	School      *string `json:"school,omitempty"`
}

// CreateDeviceRequest is the payload for creating a device. Status defaults
// to active when omitted.
type CreateDeviceRequest struct {
	Name           string       `json:"name" binding:"required"`
	DeviceType     DeviceType   `json:"deviceType" binding:"required"`
	Location       string       `json:"location" binding:"required"`
	School         string       `json:"school" binding:"required"`
	Status         DeviceStatus `json:"status,omitempty"`
	SerialNumber   string       `json:"serialNumber,omitempty"`
	PurchaseDate   string       `json:"purchaseDate,omitempty"`
	WarrantyExpiry string       `json:"warrantyExpiry,omitempty"`
}

// UpdateDeviceRequest is the payload for a full device update. A deactivation
// reason is mandatory when the update transitions the device to inactive.
type UpdateDeviceRequest struct {
	Name               string       `json:"name" binding:"required"`
	DeviceType         DeviceType   `json:"deviceType" binding:"required"`
	Location           string       `json:"location" binding:"required"`
	School             string       `json:"school" binding:"required"`
	Status             DeviceStatus `json:"status,omitempty"`
	SerialNumber       string       `json:"serialNumber,omitempty"`
	PurchaseDate       string       `json:"purchaseDate,omitempty"`
	WarrantyExpiry     string       `json:"warrantyExpiry,omitempty"`
	DeactivationReason string       `json:"deactivationReason,omitempty"`
}

// UpdateDeviceStatusRequest is the payload for a status transition. A
// deactivation reason is mandatory when the target status is inactive.
type UpdateDeviceStatusRequest struct {
	Status             DeviceStatus `json:"status" binding:"required"`
	DeactivationReason string       `json:"deactivationReason,omitempty"`
}
