package mongostore

import (
	"context"

	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type categoryRepo struct {
	coll *mongo.Collection
}

func (r *categoryRepo) Seed(ctx context.Context) error {
	for _, c := range repository.DefaultCategories {
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": c.ID},
			bson.M{"$setOnInsert": c},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *categoryRepo) Get(ctx context.Context, categoryID string) (*model.Category, error) {
	var category model.Category
	if err := r.coll.FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	categories := []*model.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
