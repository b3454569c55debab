package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

// MatchRepo persists match records in the external match store.
type MatchRepo interface {
	Create(ctx context.Context, match *model.Match) error
	GetByCode(ctx context.Context, code string) (*model.Match, error)
	UpdateStatus(ctx context.Context, code string, status model.MatchStatus) error
	Delete(ctx context.Context, code string) error
}

type matchRepo struct {
	collection *mongo.Collection
}

// NewMatchRepo creates a match repository backed by MongoDB.
func NewMatchRepo(db *mongo.Database) MatchRepo {
	return &matchRepo{
		collection: db.Collection("matches"),
	}
}

func (r *matchRepo) Create(ctx context.Context, match *model.Match) error {
	_, err := r.collection.InsertOne(ctx, match)
	return err
}

func (r *matchRepo) GetByCode(ctx context.Context, code string) (*model.Match, error) {
	var match model.Match
	err := r.collection.FindOne(ctx, bson.M{"gameCode": code}).Decode(&match)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // match not found
		}
		return nil, err
	}

	return &match, nil
}

func (r *matchRepo) UpdateStatus(ctx context.Context, code string, status model.MatchStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"gameCode": code},
		bson.M{"$set": bson.M{"gameState": status}},
	)
	return err
}

func (r *matchRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"gameCode": code})
	return err
}
