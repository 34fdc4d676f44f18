package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventhub/event-management/internal/core/domain"
)

// AuditRepository appends security audit records to the audit_log collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDocument struct {
	Action     string    `bson:"action"`
	Outcome    string    `bson:"outcome"`
	Username   string    `bson:"username,omitempty"`
	UserID     int64     `bson:"user_id,omitempty"`
	Detail     string    `bson:"detail,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, rec domain.AuditRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDocument{
		Action:     string(rec.Action),
		Outcome:    string(rec.Outcome),
		Username:   rec.Username,
		UserID:     rec.UserID,
		Detail:     rec.Detail,
		At:         rec.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
