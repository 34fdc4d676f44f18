package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/event-management/internal/core/domain"
)

// AttendeeRepository implements ports.AttendeeRepository. The unique
// (user_id, event_id) index backs the duplicate-registration guard.
type AttendeeRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewAttendeeRepository(db *mongo.Database) *AttendeeRepository {
	return &AttendeeRepository{
		col: db.Collection(collectionAttendees),
		ids: newSequence(db, collectionAttendees),
	}
}

type attendeeDocument struct {
	ID         int64     `bson:"_id"`
	UserID     int64     `bson:"user_id"`
	Username   string    `bson:"username"`
	EventID    int64     `bson:"event_id"`
	EventTitle string    `bson:"event_title"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d attendeeDocument) toDomain() *domain.Attendee {
	return &domain.Attendee{
		ID:         d.ID,
		UserID:     d.UserID,
		Username:   d.Username,
		EventID:    d.EventID,
		EventTitle: d.EventTitle,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

func (r *AttendeeRepository) Create(ctx context.Context, a *domain.Attendee) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := attendeeDocument{
		ID:         id,
		UserID:     a.UserID,
		Username:   a.Username,
		EventID:    a.EventID,
		EventTitle: a.EventTitle,
		CreatedAt:  a.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert attendee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AttendeeRepository) FindByID(ctx context.Context, id int64) (*domain.Attendee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AttendeeRepository) FindByUserAndEvent(ctx context.Context, userID, eventID int64) (*domain.Attendee, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "event_id": eventID})
}

func (r *AttendeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc attendeeDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, fmt.Errorf("find attendee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AttendeeRepository) FindByEventID(ctx context.Context, eventID int64) ([]*domain.Attendee, error) {
	return r.find(ctx, bson.M{"event_id": eventID})
}

func (r *AttendeeRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Attendee, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *AttendeeRepository) find(ctx context.Context, filter bson.M) ([]*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendees: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []attendeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendees: %w", err)
	}

	out := make([]*domain.Attendee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AttendeeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAttendeeNotFound
	}
	return nil
}

func (r *AttendeeRepository) DeleteByEventID(ctx context.Context, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"event_id": eventID}); err != nil {
		return fmt.Errorf("delete attendees of event %d: %w", eventID, err)
	}
	return nil
}
