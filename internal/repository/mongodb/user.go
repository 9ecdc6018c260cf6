package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
)

const usersCollection = "users"

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{users: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.Progress == nil {
		user.Progress = model.ProgressLog{}
	}

	_, err := r.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateEmail
	}

	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	user := &model.User{}

	err := r.users.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Users(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	users := []*model.User{}
	err = cursor.All(ctx, &users)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Update sets the account fields. progress is only written through
// AppendProgress so a stale copy cannot erase entries.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	set := bson.D{
		{Key: "email", Value: user.Email},
		{Key: "name", Value: user.Name},
		{Key: "avatar_path", Value: user.AvatarPath},
		{Key: "updated_at", Value: user.UpdatedAt},
	}
	unset := bson.D{}
	if user.HasPassword() {
		set = append(set, bson.E{Key: "password_hash", Value: *user.PasswordHash})
	} else {
		unset = append(unset, bson.E{Key: "password_hash", Value: ""})
	}

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}

	result, err := r.users.UpdateByID(ctx, user.ID, update)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateEmail
	}
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) AppendProgress(ctx context.Context, userID string, entry model.ProgressEntry) error {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "progress", Value: entry}}}}

	result, err := r.users.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
