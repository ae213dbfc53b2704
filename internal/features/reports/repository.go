package reports

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

const collectionName = "reports"

// Repository handles database interactions for weather reports
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the owner listing and timestamp indexes.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create report indexes: %w", err)
	}
	return nil
}

// Insert stores report and fills in its id and audit timestamps.
func (r *Repository) Insert(ctx context.Context, report *Report) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("insert report: %w", err))
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

// FindByOwner lists the owner's reports, newest first. A non-empty location is
// matched as a literal case-insensitive substring.
func (r *Repository) FindByOwner(ctx context.Context, ownerID, location string) ([]Report, error) {
	filter := bson.M{"user": ownerID}
	if location != "" {
		filter["location"] = bson.M{"$regex": regexp.QuoteMeta(location), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return r.find(ctx, filter, opts)
}

// FindByID returns nil, nil when no report has the id.
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	var report Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperrors.Internal(fmt.Errorf("find report: %w", err))
	}
	return &report, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Report, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// DeleteByIDAndOwner removes the report only if it still belongs to ownerID.
// It returns nil, nil when nothing matched.
func (r *Repository) DeleteByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string) (*Report, error) {
	var report Report
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "user": ownerID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperrors.Internal(fmt.Errorf("delete report: %w", err))
	}
	return &report, nil
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]Report, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("find reports: %w", err))
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("decode reports: %w", err))
	}
	return reports, nil
}
