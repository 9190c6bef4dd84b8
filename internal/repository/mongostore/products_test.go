package mongostore

import (
	"testing"

	"secondhand-market/internal/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProductQuery(t *testing.T) {
	notPaid := bson.M{"$ne": true}

	tests := []struct {
		name   string
		filter model.ProductFilter
		want   bson.M
	}{
		{
			name:   "empty hides paid",
			filter: model.ProductFilter{},
			want:   bson.M{"paid": notPaid},
		},
		{
			name:   "category and advertised",
			filter: model.ProductFilter{}.WithCategory("phones").WithAdvertised(true),
			want:   bson.M{"category_id": "phones", "advertised": true, "paid": notPaid},
		},
		{
			name:   "by id keeps paid",
			filter: model.ProductFilter{}.WithProductID("p1"),
			want:   bson.M{"_id": "p1"},
		},
		{
			name:   "seller listing keeps paid",
			filter: model.ProductFilter{}.WithSeller("s1").WithPaid(),
			want:   bson.M{"seller_uid": "s1"},
		},
		{
			name:   "advertised false is a constraint",
			filter: model.ProductFilter{}.WithAdvertised(false),
			want:   bson.M{"advertised": false, "paid": notPaid},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, productQuery(tc.filter))
		})
	}
}
