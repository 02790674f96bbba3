package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceType is the closed set of tracked asset types.
type DeviceType string

const (
	DeviceTypeDesktop DeviceType = "desktop"
	DeviceTypePrinter DeviceType = "printer"
	DeviceTypeCCTV    DeviceType = "cctv"
	DeviceTypeCamera  DeviceType = "camera"
	DeviceTypeServer  DeviceType = "server"
)

// IsValid reports whether t is one of the known device types.
func (t DeviceType) IsValid() bool {
	switch t {
	case DeviceTypeDesktop, DeviceTypePrinter, DeviceTypeCCTV, DeviceTypeCamera, DeviceTypeServer:
		return true
	}
	return false
}

// DeviceStatus is the two-state device lifecycle status.
type DeviceStatus string

const (
	DeviceStatusActive   DeviceStatus = "active"
	DeviceStatusInactive DeviceStatus = "inactive"
)

// IsValid reports whether s is active or inactive.
func (s DeviceStatus) IsValid() bool {
	return s == DeviceStatusActive || s == DeviceStatusInactive
}

// Device represents a physical asset tracked at a location within a school.
type Device struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	DeviceType     DeviceType         `json:"deviceType" bson:"deviceType"`
	Location       primitive.ObjectID `json:"location" bson:"location"`
	School         primitive.ObjectID `json:"school" bson:"school"`
	Status         DeviceStatus       `json:"status" bson:"status"`
	SerialNumber   string             `json:"serialNumber,omitempty" bson:"serialNumber,omitempty"`
	PurchaseDate   *time.Time         `json:"purchaseDate,omitempty" bson:"purchaseDate,omitempty"`
	WarrantyExpiry *time.Time         `json:"warrantyExpiry,omitempty" bson:"warrantyExpiry,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DeviceView is a device with its location and school names resolved for
// display.
type DeviceView struct {
	Device
	LocationName string `json:"locationName"`
	SchoolName   string `json:"schoolName"`
}
