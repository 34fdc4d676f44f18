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

const firstAdminMarker = "first_admin"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col       *mongo.Collection
	bootstrap *mongo.Collection
	ids       sequence
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:       db.Collection(collectionUsers),
		bootstrap: db.Collection(collectionBootstrap),
		ids:       newSequence(db, collectionUsers),
	}
}

type userDocument struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDocument) toDomain() (*domain.User, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", d.ID, err)
	}
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return r.exists(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
}

func (r *UserRepository) ExistsByRole(ctx context.Context, role domain.Role) (bool, error) {
	return r.exists(ctx, bson.M{"role": role.String()})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// Create inserts user under a freshly allocated id. A username or email
// collision surfaces as domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: role", domain.ErrInvalidInput)
	}

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := userDocument{
		ID:           id,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role.String(),
		CreatedAt:    user.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain()
}

// CreateFirstAdmin claims the bootstrap marker before inserting the admin so
// that concurrent callers cannot both succeed. The marker is released again
// when the admin itself cannot be stored.
func (r *UserRepository) CreateFirstAdmin(ctx context.Context, user *domain.User) (*domain.User, error) {
	claimCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	_, err := r.bootstrap.InsertOne(claimCtx, bson.M{
		"_id":        firstAdminMarker,
		"username":   user.Username,
		"claimed_at": time.Now().UTC(),
	})
	cancel()
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAdminAlreadyRegistered
		}
		return nil, fmt.Errorf("claim bootstrap marker: %w", err)
	}

	created, err := r.Create(ctx, user)
	if err != nil {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		if _, delErr := r.bootstrap.DeleteOne(releaseCtx, bson.M{"_id": firstAdminMarker}); delErr != nil {
			return nil, fmt.Errorf("%w (release bootstrap marker: %v)", err, delErr)
		}
		return nil, err
	}
	return created, nil
}
