// Package mongostore implements repository.Store on MongoDB, one collection
// per record type.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	productsCollection   = "products"
	bookingsCollection   = "bookings"
	wishlistCollection   = "wishlist"
	paymentsCollection   = "payments"
)

type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

var _ repository.Store = (*Store)(nil)

// New returns a store over database dbName. With transactions disabled,
// Transaction runs its steps in order without atomicity; every multi-step
// operation is written so that repeating it converges.
func New(client *mongo.Client, dbName string, transactions bool) *Store {
	return &Store{
		client:       client,
		db:           client.Database(dbName),
		transactions: transactions,
	}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Categories() repository.CategoryRepository {
	return &categoryRepo{coll: s.db.Collection(categoriesCollection)}
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepo{coll: s.db.Collection(productsCollection)}
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepo{coll: s.db.Collection(bookingsCollection)}
}

func (s *Store) Wishlist() repository.WishlistRepository {
	return &wishlistRepo{coll: s.db.Collection(wishlistCollection)}
}

func (s *Store) Payments() repository.PaymentRepository {
	return &paymentRepo{coll: s.db.Collection(paymentsCollection)}
}

func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if !s.transactions {
		return fn(ctx, s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	// the session context carries the transaction into every collection call
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// EnsureIndexes creates the unique indexes backing user ids and the
// composite booking and wishlist identities.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "roles", Value: 1}}},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "seller_uid", Value: 1}}},
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "paid", Value: 1}}},
			{Keys: bson.D{{Key: "advertised", Value: 1}, {Key: "paid", Value: 1}}},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "buyer_uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "buyer_uid", Value: 1}}},
		},
		wishlistCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "seller_uid", Value: 1}, {Key: "buyer_uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "buyer_uid", Value: 1}}},
			{Keys: bson.D{{Key: "seller_uid", Value: 1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}

	return nil
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// upsertDetails replaces the details of the document matching filter, or
// inserts one carrying the filter fields.
func upsertDetails(ctx context.Context, coll *mongo.Collection, filter bson.M, details model.Details) error {
	if details == nil {
		details = model.Details{}
	}
	now := time.Now()

	_, err := coll.UpdateOne(ctx, filter,
		bson.M{
			"$set": bson.M{
				"details":    details,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"_id":        uuid.NewString(),
				"paid":       false,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]*T, error) {
	cur, err := coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}

	out := []*T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func markPaid(ctx context.Context, coll *mongo.Collection, productID string) (int64, error) {
	res, err := coll.UpdateMany(ctx,
		bson.M{"product_id": productID},
		bson.M{"$set": bson.M{"paid": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func deleteMany(ctx context.Context, coll *mongo.Collection, filter bson.M) (int64, error) {
	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
