package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"secondhand-market/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, otherwise every new one opens an empty in-memory db
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, Migrate(db))

	store := NewGormStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedProduct(t *testing.T, store Store, p model.Product) *model.Product {
	t.Helper()
	if p.Price.IsZero() {
		p.Price = decimal.NewFromInt(100)
	}
	if p.PostedAt.IsZero() {
		p.PostedAt = time.Now().UTC()
	}
	if p.CategoryID == "" {
		p.CategoryID = "phones"
	}
	require.NoError(t, store.Products().Create(context.Background(), &p))
	return &p
}

func TestUserRepository_UpsertKeepsRolesAndVerified(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Users().Upsert(ctx, &model.User{
		UID:   "s1",
		Name:  "Sam",
		Roles: model.Roles{model.RoleSeller},
	}))
	require.NoError(t, store.Users().SetVerified(ctx, "s1", true))

	require.NoError(t, store.Users().Upsert(ctx, &model.User{
		UID:   "s1",
		Name:  "Samantha",
		Email: "sam@example.com",
		Roles: model.Roles{model.RoleBuyer},
	}))

	user, err := store.Users().Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Samantha", user.Name)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.Equal(t, model.Roles{model.RoleSeller}, user.Roles)
	assert.True(t, user.Verified)
}

func TestUserRepository_ListByRole(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Users().Upsert(ctx, &model.User{UID: "b1", Roles: model.Roles{model.RoleBuyer}}))
	require.NoError(t, store.Users().Upsert(ctx, &model.User{UID: "s1", Roles: model.Roles{model.RoleSeller}}))
	require.NoError(t, store.Users().Upsert(ctx, &model.User{UID: "x1", Roles: model.Roles{model.RoleBuyer, model.RoleSeller}}))

	sellers, err := store.Users().ListByRole(ctx, model.RoleSeller)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "x1"}, uids(sellers))

	all, err := store.Users().ListByRole(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepository_SetRoles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Users().Upsert(ctx, &model.User{UID: "s1", Roles: model.Roles{model.RoleSeller}}))
	require.NoError(t, store.Users().SetRoles(ctx, "s1", model.Roles{model.RoleSeller, "root", model.RoleAdmin, model.RoleSeller}))

	user, err := store.Users().Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleSeller, model.RoleAdmin}, user.Roles)

	admins, err := store.Users().ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, uids(admins))
}

func uids(users []*model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.UID
	}
	return out
}

func TestGet_MissingReturnsErrNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Users().Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Products().Get(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Bookings().Get(ctx, "p", "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRepository_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Categories().Seed(ctx))
	require.NoError(t, store.Categories().Seed(ctx))

	categories, err := store.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(DefaultCategories))

	phones, err := store.Categories().Get(ctx, "phones")
	require.NoError(t, err)
	assert.Equal(t, "Phones", phones.Name)
}

func TestProductRepository_List(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seedProduct(t, store, model.Product{ID: "p1", SellerUID: "s1", Name: "iPhone", Advertised: true})
	seedProduct(t, store, model.Product{ID: "p2", SellerUID: "s1", Name: "Pixel", CategoryID: "phones"})
	seedProduct(t, store, model.Product{ID: "p3", SellerUID: "s2", Name: "ThinkPad", CategoryID: "laptops", Advertised: true})
	seedProduct(t, store, model.Product{ID: "p4", SellerUID: "s2", Name: "Sold", Advertised: true})
	require.NoError(t, store.Products().MarkPaid(ctx, "p4"))

	tests := []struct {
		name   string
		filter model.ProductFilter
		want   []string
	}{
		{"no filter hides paid", model.ProductFilter{}, []string{"p1", "p2", "p3"}},
		{"advertised", model.ProductFilter{}.WithAdvertised(true), []string{"p1", "p3"}},
		{"category and advertised", model.ProductFilter{}.WithCategory("phones").WithAdvertised(true), []string{"p1"}},
		{"not advertised", model.ProductFilter{}.WithAdvertised(false), []string{"p2"}},
		{"by id includes paid", model.ProductFilter{}.WithProductID("p4"), []string{"p4"}},
		{"by id and other category", model.ProductFilter{}.WithProductID("p1").WithCategory("laptops"), []string{}},
		{"seller with paid", model.ProductFilter{}.WithSeller("s2").WithPaid(), []string{"p3", "p4"}},
		{"seller without paid", model.ProductFilter{}.WithSeller("s2"), []string{"p3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			products, err := store.Products().List(ctx, tc.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.ElementsMatch(t, tc.want, ids)
		})
	}
}

func TestProductRepository_Flags(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seedProduct(t, store, model.Product{ID: "p1", SellerUID: "s1", Name: "iPhone", Price: decimal.RequireFromString("499.50")})
	seedProduct(t, store, model.Product{ID: "p2", SellerUID: "s1", Name: "iPad"})

	require.NoError(t, store.Products().MarkBooked(ctx, "p1"))
	require.NoError(t, store.Products().SetAdvertised(ctx, "p1", true))
	n, err := store.Products().SetVerifiedBySeller(ctx, "s1", true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	p, err := store.Products().Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Booked)
	assert.True(t, p.Advertised)
	assert.True(t, p.Verified)
	assert.False(t, p.Paid)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("499.5")), "price %s", p.Price)

	ids, err := store.Products().IDsBySeller(ctx, "s1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestBookingRepository_UpsertReplacesDetails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Bookings().Upsert(ctx, &model.Booking{
		ProductID: "p1",
		BuyerUID:  "b1",
		Details:   model.Details{"phone": "111"},
	})
	require.NoError(t, err)

	second, err := store.Bookings().Upsert(ctx, &model.Booking{
		ProductID: "p1",
		BuyerUID:  "b1",
		Details:   model.Details{"phone": "222", "meet": "station"},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "222", second.Details["phone"])
	assert.Equal(t, "station", second.Details["meet"])

	_, err = store.Bookings().Upsert(ctx, &model.Booking{ProductID: "p1", BuyerUID: "b2"})
	require.NoError(t, err)

	byProduct, err := store.Bookings().ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	n, err := store.Bookings().MarkPaidByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	mine, err := store.Bookings().ListByBuyer(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].Paid)

	n, err = store.Bookings().DeleteByBuyer(ctx, "b2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.Bookings().DeleteByProducts(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWishlistRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, e := range []model.WishlistEntry{
		{ProductID: "p1", SellerUID: "s1", BuyerUID: "b1"},
		{ProductID: "p1", SellerUID: "s1", BuyerUID: "b1", Details: model.Details{"note": "again"}},
		{ProductID: "p1", SellerUID: "s1", BuyerUID: "b2"},
		{ProductID: "p2", SellerUID: "s2", BuyerUID: "b1"},
	} {
		e := e
		_, err := store.Wishlist().Upsert(ctx, &e)
		require.NoError(t, err)
	}

	mine, err := store.Wishlist().ListByBuyer(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	entry, err := store.Wishlist().Get(ctx, "p1", "s1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "again", entry.Details["note"])

	n, err := store.Wishlist().MarkPaidByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.Wishlist().DeleteForBuyer(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.Wishlist().DeleteForBuyer(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Wishlist().DeleteBySeller(ctx, "s2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := store.Wishlist().ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b2", left[0].BuyerUID)
	assert.True(t, left[0].Paid)
}

func TestPaymentRepository_AppendOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Payments().Create(ctx, &model.Payment{ProductID: "p1", Payload: model.Details{"txn": "a"}}))
	require.NoError(t, store.Payments().Create(ctx, &model.Payment{ProductID: "p1"}))

	payments, err := store.Payments().ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.NotEqual(t, payments[0].ID, payments[1].ID)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedProduct(t, store, model.Product{ID: "p1", SellerUID: "s1", Name: "iPhone"})

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Products().MarkPaid(ctx, "p1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := store.Products().Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, p.Paid)
}
