// models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Housing application statuses
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// HousingApplication model
type HousingApplication struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	Reference        string             `json:"reference" bson:"reference"`
	FullName         string             `json:"fullName" bson:"fullName"`
	Email            string             `json:"email" bson:"email"`
	Phone            string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Governorate      string             `json:"governorate" bson:"governorate"`
	HousingType      string             `json:"housingType" bson:"housingType"`
	FamilySize       int                `json:"familySize,omitempty" bson:"familySize,omitempty"`
	EmploymentStatus string             `json:"employmentStatus,omitempty" bson:"employmentStatus,omitempty"`
	Message          string             `json:"message,omitempty" bson:"message,omitempty"`
	Status           string             `json:"status" bson:"status"` // "pending", "approved", "rejected"
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ApplicationRequest model
type ApplicationRequest struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone,omitempty"`
	Governorate      string `json:"governorate" validate:"required"`
	HousingType      string `json:"housingType" validate:"required"`
	FamilySize       int    `json:"familySize,omitempty" validate:"omitempty,min=1,max=20"`
	EmploymentStatus string `json:"employmentStatus,omitempty"`
	Message          string `json:"message,omitempty" validate:"max=1000"`
}

// ApplicationStatusUpdateRequest model for admin status transitions
type ApplicationStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
