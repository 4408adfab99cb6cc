package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wayfarehq/wayfare/internal/domain/models"
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
	errBadRole        = errors.New(`role must be "traveler"|"organizer"|"venuehost"|"doctor"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errBadPermission  = errors.New("unknown admin permission")
	errEmptyName      = errors.New("full name is required")
	errEmptyEmail     = errors.New("email is required")
)

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(NormalizeEmail(email))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByRole loads a user by ObjectID, returning an error if the user does
// not exist or has a different role.
func (s *Store) GetByRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": role}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	// Normalize core fields
	u.ID = primitive.NewObjectID()
	u.FullName = strings.TrimSpace(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = NormalizeEmail(u.Email)
	u.EmailCI = text.Fold(u.Email)
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if u.FullName == "" {
		return models.User{}, errEmptyName
	}
	if u.Email == "" {
		return models.User{}, errEmptyEmail
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.Status != models.StatusActive && u.Status != models.StatusDisabled {
		return models.User{}, errBadStatus
	}

	// Permissions only make sense on admin accounts.
	if u.Role != models.RoleAdmin {
		u.Permissions = nil
	}
	for _, p := range u.Permissions {
		if !models.IsValidPermission(p) {
			return models.User{}, errBadPermission
		}
	}

	now := time.Now()
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

// ProfileUpdate holds the fields a user may change on their own account.
type ProfileUpdate struct {
	FullName string
	Phone    string
}

// UpdateProfile updates a user's own editable fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	name := strings.TrimSpace(upd.FullName)
	if name == "" {
		return errEmptyName
	}
	set := bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"phone":        strings.TrimSpace(upd.Phone),
		"updated_at":   time.Now(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetStatus enables or disables a user account. A disabled user's session
// is invalidated on their next request by the session fetcher.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.StatusActive && status != models.StatusDisabled {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetPermissions replaces an admin's fine-grained permissions.
// Only matches users with role="admin"; other roles are unaffected.
func (s *Store) SetPermissions(ctx context.Context, id primitive.ObjectID, perms []string) error {
	for _, p := range perms {
		if !models.IsValidPermission(p) {
			return errBadPermission
		}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleAdmin},
		bson.M{"$set": bson.M{"permissions": perms, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetPasswordHash stores a new bcrypt hash for the user.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}})
	return err
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email_ci": text.Fold(NormalizeEmail(email)),
		"_id":      bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Find returns users matching a caller-built filter, for admin user lists.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching a caller-built filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
