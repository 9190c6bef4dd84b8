package mongostore

import (
	"context"

	"secondhand-market/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type wishlistRepo struct {
	coll *mongo.Collection
}

func (r *wishlistRepo) Upsert(ctx context.Context, entry *model.WishlistEntry) (*model.WishlistEntry, error) {
	err := upsertDetails(ctx, r.coll,
		bson.M{"product_id": entry.ProductID, "seller_uid": entry.SellerUID, "buyer_uid": entry.BuyerUID},
		entry.Details,
	)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, entry.ProductID, entry.SellerUID, entry.BuyerUID)
}

func (r *wishlistRepo) Get(ctx context.Context, productID, sellerUID, buyerUID string) (*model.WishlistEntry, error) {
	var entry model.WishlistEntry
	err := r.coll.FindOne(ctx, bson.M{"product_id": productID, "seller_uid": sellerUID, "buyer_uid": buyerUID}).Decode(&entry)
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *wishlistRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]*model.WishlistEntry, error) {
	return findAll[model.WishlistEntry](ctx, r.coll, bson.M{"buyer_uid": buyerUID})
}

func (r *wishlistRepo) ListByProduct(ctx context.Context, productID string) ([]*model.WishlistEntry, error) {
	return findAll[model.WishlistEntry](ctx, r.coll, bson.M{"product_id": productID})
}

func (r *wishlistRepo) MarkPaidByProduct(ctx context.Context, productID string) (int64, error) {
	return markPaid(ctx, r.coll, productID)
}

func (r *wishlistRepo) DeleteForBuyer(ctx context.Context, productID, buyerUID string) (int64, error) {
	return deleteMany(ctx, r.coll, bson.M{"product_id": productID, "buyer_uid": buyerUID})
}

func (r *wishlistRepo) DeleteByProducts(ctx context.Context, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	return deleteMany(ctx, r.coll, bson.M{"product_id": bson.M{"$in": productIDs}})
}

func (r *wishlistRepo) DeleteByBuyer(ctx context.Context, buyerUID string) (int64, error) {
	return deleteMany(ctx, r.coll, bson.M{"buyer_uid": buyerUID})
}

func (r *wishlistRepo) DeleteBySeller(ctx context.Context, sellerUID string) (int64, error) {
	return deleteMany(ctx, r.coll, bson.M{"seller_uid": sellerUID})
}
