package mongostore

import (
	"context"
	"time"

	"secondhand-market/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type paymentRepo struct {
	coll *mongo.Collection
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, payment)
	return err
}

func (r *paymentRepo) ListByProduct(ctx context.Context, productID string) ([]*model.Payment, error) {
	cur, err := r.coll.Find(ctx, bson.M{"product_id": productID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	payments := []*model.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
