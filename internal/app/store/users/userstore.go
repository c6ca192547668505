package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/authutil"
	"github.com/dalemusser/menuhub/internal/app/system/normalize"
	"github.com/dalemusser/menuhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "user"|"moderator"|"admin"`)
	errNoPassword     = errors.New("password hash is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// PasswordHash must already be set.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.PasswordHash == "" {
		return models.User{}, errNoPassword
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// FindByIDs returns the users among ids, keyed by ID. Missing ids are absent
// from the map.
func (s *Store) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	proj := options.Find().SetProjection(bson.M{"password_hash": 0})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

// EnsureAdmin creates an admin with the given credentials when no user with
// that email exists. An existing user is promoted to admin; its password is
// left alone. It reports whether a new user was created.
func (s *Store) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalize.Email(email)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": email, "role": bson.M{"$ne": models.RoleAdmin}},
		bson.M{"$set": bson.M{"role": models.RoleAdmin, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return false, nil
	}
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = s.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		// Another instance created it first.
		return false, nil
	}
	return err == nil, err
}
