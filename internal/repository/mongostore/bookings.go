package mongostore

import (
	"context"

	"secondhand-market/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingRepo struct {
	coll *mongo.Collection
}

func (r *bookingRepo) Upsert(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	err := upsertDetails(ctx, r.coll,
		bson.M{"product_id": booking.ProductID, "buyer_uid": booking.BuyerUID},
		booking.Details,
	)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, booking.ProductID, booking.BuyerUID)
}

func (r *bookingRepo) Get(ctx context.Context, productID, buyerUID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.coll.FindOne(ctx, bson.M{"product_id": productID, "buyer_uid": buyerUID}).Decode(&booking)
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]*model.Booking, error) {
	return findAll[model.Booking](ctx, r.coll, bson.M{"buyer_uid": buyerUID})
}

func (r *bookingRepo) ListByProduct(ctx context.Context, productID string) ([]*model.Booking, error) {
	return findAll[model.Booking](ctx, r.coll, bson.M{"product_id": productID})
}

func (r *bookingRepo) MarkPaidByProduct(ctx context.Context, productID string) (int64, error) {
	return markPaid(ctx, r.coll, productID)
}

func (r *bookingRepo) DeleteByProducts(ctx context.Context, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	return deleteMany(ctx, r.coll, bson.M{"product_id": bson.M{"$in": productIDs}})
}

func (r *bookingRepo) DeleteByBuyer(ctx context.Context, buyerUID string) (int64, error) {
	return deleteMany(ctx, r.coll, bson.M{"buyer_uid": buyerUID})
}
