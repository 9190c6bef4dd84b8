package mongostore

import (
	"context"

	"secondhand-market/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepo struct {
	coll *mongo.Collection
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	_, err := r.coll.InsertOne(ctx, product)
	return err
}

func (r *productRepo) Get(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// productQuery turns the filter into a conjunctive document query.
func productQuery(f model.ProductFilter) bson.M {
	q := bson.M{}
	if f.ProductID != "" {
		q["_id"] = f.ProductID
	}
	if f.CategoryID != "" {
		q["category_id"] = f.CategoryID
	}
	if f.SellerUID != "" {
		q["seller_uid"] = f.SellerUID
	}
	if f.Advertised != nil {
		q["advertised"] = *f.Advertised
	}
	if f.ExcludesPaid() {
		q["paid"] = bson.M{"$ne": true}
	}
	return q
}

func (r *productRepo) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	cur, err := r.coll.Find(ctx, productQuery(filter), options.Find().SetSort(bson.D{{Key: "posted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	products := []*model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) IDsBySeller(ctx context.Context, sellerUID string) ([]string, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"seller_uid": sellerUID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *productRepo) MarkBooked(ctx context.Context, productID string) error {
	return r.setOne(ctx, productID, "booked", true)
}

func (r *productRepo) MarkPaid(ctx context.Context, productID string) error {
	return r.setOne(ctx, productID, "paid", true)
}

func (r *productRepo) SetAdvertised(ctx context.Context, productID string, advertised bool) error {
	return r.setOne(ctx, productID, "advertised", advertised)
}

func (r *productRepo) setOne(ctx context.Context, productID, field string, value bool) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": bson.M{field: value}})
	return err
}

func (r *productRepo) SetVerifiedBySeller(ctx context.Context, sellerUID string, verified bool) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"seller_uid": sellerUID}, bson.M{"$set": bson.M{"verified": verified}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *productRepo) Delete(ctx context.Context, productID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": productID})
	return err
}

func (r *productRepo) DeleteBySeller(ctx context.Context, sellerUID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"seller_uid": sellerUID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
