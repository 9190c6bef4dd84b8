package mongostore

import (
	"context"
	"time"

	"secondhand-market/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Roles == nil {
		user.Roles = model.Roles{}
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"uid": user.UID},
		bson.M{
			"$set": bson.M{
				"name":      user.Name,
				"email":     user.Email,
				"photo_url": user.PhotoURL,
			},
			"$setOnInsert": bson.M{
				"roles":      user.Roles,
				"verified":   user.Verified,
				"created_at": user.CreatedAt,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *userRepo) Get(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	filter := bson.M{}
	if role != "" {
		// matches any array element
		filter["roles"] = role
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	users := []*model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) SetVerified(ctx context.Context, uid string, verified bool) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{"verified": verified}})
	return err
}

func (r *userRepo) SetRoles(ctx context.Context, uid string, roles model.Roles) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{"roles": roles.Normalize()}})
	return err
}

func (r *userRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"uid": uid})
	return err
}
