// models/otp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpCode represents one issued email verification attempt. Rows are never
// deleted by the backend; a new issuance for the same email force-marks any
// still-unused rows as used before inserting its own.
type OtpCode struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Code      string             `json:"code" bson:"code"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
	Used      bool               `json:"used" bson:"used"`
	// VerifiedAt is set only when the row is consumed by a successful
	// verification, not when a reissue invalidates it.
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
}

// SendOtpRequest is the issuance payload
type SendOtpRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// VerifyOtpRequest is the verification payload
type VerifyOtpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
