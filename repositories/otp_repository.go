package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shift-eg/shift_backend/config"
	"github.com/shift-eg/shift_backend/models"
)

// OTPStore is the durable record of issued codes. The backend never deletes
// rows; retention is an operational concern.
type OTPStore interface {
	// InvalidateActive force-marks every unused row for the email as used.
	InvalidateActive(ctx context.Context, email string) error
	// Insert stores a freshly issued code.
	Insert(ctx context.Context, code *models.OtpCode) error
	// FindActive returns the single most-recently-created unused, unexpired
	// row for the email, or nil when none exists.
	FindActive(ctx context.Context, email string, now time.Time) (*models.OtpCode, error)
	// MarkUsed flips a row's used flag and records the verification time.
	MarkUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// VerifiedSince reports whether a row for the email was consumed by a
	// successful verification after the given time. Signup relies on this to
	// prove recent control of the address.
	VerifiedSince(ctx context.Context, email string, since time.Time) (bool, error)
}

// MongoOTPStore is the production OTPStore backed by the otp_codes collection
type MongoOTPStore struct {
	collection *mongo.Collection
}

func NewMongoOTPStore(db *mongo.Client) *MongoOTPStore {
	return &MongoOTPStore{
		collection: config.GetCollection(db, "otp_codes"),
	}
}

func (s *MongoOTPStore) InvalidateActive(ctx context.Context, email string) error {
	_, err := s.collection.UpdateMany(ctx,
		bson.M{"email": email, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	return err
}

func (s *MongoOTPStore) Insert(ctx context.Context, code *models.OtpCode) error {
	if code.ID.IsZero() {
		code.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, code)
	return err
}

func (s *MongoOTPStore) FindActive(ctx context.Context, email string, now time.Time) (*models.OtpCode, error) {
	filter := bson.M{
		"email":     email,
		"used":      false,
		"expiresAt": bson.M{"$gt": now},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var row models.OtpCode
	err := s.collection.FindOne(ctx, filter, opts).Decode(&row)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *MongoOTPStore) MarkUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"used": true, "verifiedAt": at}},
	)
	return err
}

func (s *MongoOTPStore) VerifiedSince(ctx context.Context, email string, since time.Time) (bool, error) {
	filter := bson.M{
		"email":      email,
		"used":       true,
		"verifiedAt": bson.M{"$gt": since},
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
