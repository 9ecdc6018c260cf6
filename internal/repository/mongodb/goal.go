package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
)

const goalsCollection = "goals"

type goalRepository struct {
	goals *mongo.Collection
}

func NewGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &goalRepository{goals: db.Collection(goalsCollection)}
}

func ownedBy(userID, goalID string) bson.D {
	return bson.D{{Key: "_id", Value: goalID}, {Key: "user_id", Value: userID}}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	_, err := r.goals.InsertOne(ctx, goal)
	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}

	err := r.goals.FindOne(ctx, ownedBy(userID, goalID)).Decode(goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	filter := bson.D{{Key: "user_id", Value: userID}}

	var cursor *mongo.Cursor
	var err error

	if sortBy == repository.GoalSortProgress {
		// ratio sort needs a computed field
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: filter}},
			{{Key: "$addFields", Value: bson.D{{Key: "ratio", Value: bson.D{{Key: "$divide", Value: bson.A{"$progress", "$target"}}}}}}},
			{{Key: "$sort", Value: bson.D{{Key: "ratio", Value: -1}, {Key: "updated_at", Value: -1}}}},
			{{Key: "$project", Value: bson.D{{Key: "ratio", Value: 0}}}},
		}
		cursor, err = r.goals.Aggregate(ctx, pipeline)
	} else {
		opts := options.Find().SetSort(sortFor(sortBy))
		if sortBy == repository.GoalSortType {
			// strength 2 ignores case, matching LOWER(type) in the SQL store
			opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
		}
		cursor, err = r.goals.Find(ctx, filter, opts)
	}
	if err != nil {
		return nil, err
	}

	goals := []*model.Goal{}
	err = cursor.All(ctx, &goals)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func sortFor(sortBy string) bson.D {
	switch sortBy {
	case repository.GoalSortType:
		return bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}
	case repository.GoalSortDeadline:
		return bson.D{{Key: "deadline", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	result, err := r.goals.ReplaceOne(ctx, ownedBy(goal.UserID, goal.ID), goal)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	result, err := r.goals.DeleteOne(ctx, ownedBy(userID, goalID))
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return repository.ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Progress(ctx context.Context, userID, goalID string) (float64, error) {
	goal, err := r.ByID(ctx, userID, goalID)
	if err != nil {
		return 0, err
	}

	return goal.Progress, nil
}

func (r *goalRepository) UpdateProgress(ctx context.Context, userID, goalID string, progress float64) (*model.Goal, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "progress", Value: progress},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	goal := &model.Goal{}
	err := r.goals.FindOneAndUpdate(ctx, ownedBy(userID, goalID), update, opts).Decode(goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}
