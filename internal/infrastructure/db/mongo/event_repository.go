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

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
	ids sequence
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		col: db.Collection(collectionEvents),
		ids: newSequence(db, collectionEvents),
	}
}

type eventDocument struct {
	ID              int64     `bson:"_id"`
	Title           string    `bson:"title"`
	Description     string    `bson:"description,omitempty"`
	Location        string    `bson:"location,omitempty"`
	EventDate       time.Time `bson:"event_date"`
	Capacity        int       `bson:"capacity"`
	CreatorID       int64     `bson:"creator_id"`
	CreatorUsername string    `bson:"creator_username"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func eventToDocument(e *domain.Event) eventDocument {
	return eventDocument{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		EventDate:       e.EventDate.UTC(),
		Capacity:        e.Capacity,
		CreatorID:       e.CreatorID,
		CreatorUsername: e.CreatorUsername,
		CreatedAt:       e.CreatedAt.UTC(),
		UpdatedAt:       e.UpdatedAt.UTC(),
	}
}

func (d eventDocument) toDomain() *domain.Event {
	return &domain.Event{
		ID:              d.ID,
		Title:           d.Title,
		Description:     d.Description,
		Location:        d.Location,
		EventDate:       d.EventDate.UTC(),
		Capacity:        d.Capacity,
		CreatorID:       d.CreatorID,
		CreatorUsername: d.CreatorUsername,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := eventToDocument(e)
	doc.ID = id

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the stored event. The creator fields are never rewritten.
func (r *EventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       e.Title,
		"description": e.Description,
		"location":    e.Location,
		"event_date":  e.EventDate.UTC(),
		"capacity":    e.Capacity,
		"updated_at":  e.UpdatedAt.UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc eventDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": e.ID}, update, opts).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc eventDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{})
}

func (r *EventRepository) FindByCreatorID(ctx context.Context, creatorID int64) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{"creator_id": creatorID})
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *EventRepository) find(ctx context.Context, filter bson.M) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toDomain())
	}
	return events, nil
}
