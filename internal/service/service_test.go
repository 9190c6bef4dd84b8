package service

import (
	"context"
	"errors"
	"testing"

	"secondhand-market/internal/client"
	"secondhand-market/internal/config"
	"secondhand-market/internal/dto"
	"secondhand-market/internal/logging"
	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()

	store, err := client.OpenStore(context.Background(), config.Database{
		Driver:       "sqlite",
		URL:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type fakePaymentClient struct {
	calls    int
	currency string
	err      error
}

func (f *fakePaymentClient) CreateIntent(_ context.Context, amount decimal.Decimal, currency string) (*client.PaymentIntent, error) {
	f.calls++
	f.currency = currency
	if f.err != nil {
		return nil, f.err
	}
	return &client.PaymentIntent{ClientSecret: "secret-" + amount.String()}, nil
}

type fixture struct {
	store    repository.Store
	users    UserService
	products ProductService
	bookings BookingService
	wishlist WishlistService
	payments PaymentService
	provider *fakePaymentClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newTestStore(t)
	log := logging.Discard()
	provider := &fakePaymentClient{}

	return &fixture{
		store:    store,
		users:    NewUserService(store, log),
		products: NewProductService(store, log),
		bookings: NewBookingService(store, log),
		wishlist: NewWishlistService(store),
		payments: NewPaymentService(store, provider, "usd", log),
		provider: provider,
	}
}

func (f *fixture) user(t *testing.T, uid string, roles ...string) *model.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), &dto.CreateUserRequest{UID: uid, Name: uid, Roles: roles})
	require.NoError(t, err)
	return u
}

func (f *fixture) product(t *testing.T, sellerUID, name string) *model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), sellerUID, &dto.CreateProductRequest{
		Name:       name,
		CategoryID: "phones",
		Price:      decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	return p
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.CreateUser(ctx, &dto.CreateUserRequest{UID: "b1", Name: "Bea"})
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleBuyer}, u.Roles)
	assert.False(t, u.Verified)

	u, err = f.users.CreateUser(ctx, &dto.CreateUserRequest{UID: "s1", Role: "seller", Roles: []string{"seller", "wizard"}})
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleSeller}, u.Roles)

	_, err = f.users.CreateUser(ctx, &dto.CreateUserRequest{UID: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_SetVerifiedPropagatesToProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	p1 := f.product(t, "s1", "iPhone")
	p2 := f.product(t, "s1", "Pixel")
	assert.False(t, p1.Verified)

	require.NoError(t, f.users.SetVerified(ctx, "s1", true))

	for _, id := range []string{p1.ID, p2.ID} {
		p, err := f.store.Products().Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, p.Verified)
	}

	u, err := f.users.GetUser(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, u.Verified)

	// new listings inherit the flag
	p3 := f.product(t, "s1", "Galaxy")
	assert.True(t, p3.Verified)

	err = f.users.SetVerified(ctx, "ghost", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductService_CreateProductValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")

	tests := []struct {
		name string
		req  dto.CreateProductRequest
	}{
		{"missing name", dto.CreateProductRequest{CategoryID: "phones", Price: decimal.NewFromInt(1)}},
		{"zero price", dto.CreateProductRequest{Name: "x", CategoryID: "phones"}},
		{"negative price", dto.CreateProductRequest{Name: "x", CategoryID: "phones", Price: decimal.NewFromInt(-5)}},
		{"unknown category", dto.CreateProductRequest{Name: "x", CategoryID: "cars", Price: decimal.NewFromInt(1)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.CreateProduct(ctx, "s1", &tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	p := f.product(t, "s1", "iPhone")
	assert.Equal(t, "s1", p.SellerName)
	assert.False(t, p.Booked)
	assert.False(t, p.Paid)
	assert.False(t, p.Advertised)
}

func TestProductService_AdvertiseRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	f.user(t, "s2", "seller")
	p := f.product(t, "s1", "iPhone")

	err := f.products.Advertise(ctx, p.ID, "s2", true)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.store.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Advertised)

	require.NoError(t, f.products.Advertise(ctx, p.ID, "s1", true))

	ads, err := f.products.ListProducts(ctx, model.ProductFilter{}.WithAdvertised(true))
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, p.ID, ads[0].ID)

	err = f.products.Advertise(ctx, "missing", "s1", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductService_ListingsHidePaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	sold := f.product(t, "s1", "Sold")
	f.product(t, "s1", "Open")
	require.NoError(t, f.products.Advertise(ctx, sold.ID, "s1", true))

	_, err := f.payments.Pay(ctx, sold.ID, nil)
	require.NoError(t, err)

	ads, err := f.products.ListProducts(ctx, model.ProductFilter{}.WithAdvertised(true))
	require.NoError(t, err)
	assert.Empty(t, ads)

	all, err := f.products.ListProducts(ctx, model.ProductFilter{}.WithPaid().WithSeller("someone"))
	require.NoError(t, err)
	assert.Len(t, all, 1, "caller cannot lift paid exclusion or scope by seller")

	byID, err := f.products.ListProducts(ctx, model.ProductFilter{}.WithProductID(sold.ID))
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.True(t, byID[0].Paid)

	mine, err := f.products.SellerProducts(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestProductService_DeleteProductCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	f.user(t, "s2", "seller")
	f.user(t, "b1")
	p := f.product(t, "s1", "iPhone")
	other := f.product(t, "s1", "Pixel")

	_, err := f.bookings.Book(ctx, p.ID, "b1", nil)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, p.ID, "", "b1", nil)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, other.ID, "", "b1", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.products.DeleteProduct(ctx, p.ID, "s2"), ErrForbidden)
	assert.ErrorIs(t, f.products.DeleteProduct(ctx, "", "s1"), ErrInvalidInput)

	require.NoError(t, f.products.DeleteProduct(ctx, p.ID, "s1"))

	_, err = f.store.Products().Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	bookings, err := f.store.Bookings().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	items, err := f.wishlist.List(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].ProductID)
}

func TestProductService_ListCategories(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	all, err := f.products.ListCategories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(repository.DefaultCategories))

	one, err := f.products.ListCategories(ctx, "laptops")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "laptops", one[0].ID)

	none, err := f.products.ListCategories(ctx, "cars")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingService_Book(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	p := f.product(t, "s1", "iPhone")

	_, err := f.bookings.Book(ctx, "missing", "b1", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	none, err := f.bookings.ListBookings(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, none)

	first, err := f.bookings.Book(ctx, p.ID, "b1", model.Details{"meet": "mall"})
	require.NoError(t, err)
	second, err := f.bookings.Book(ctx, p.ID, "b1", model.Details{"meet": "park"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "park", second.Details["meet"])

	// a booked product can still be booked by someone else
	_, err = f.bookings.Book(ctx, p.ID, "b2", nil)
	require.NoError(t, err)

	got, err := f.store.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Booked)

	mine, err := f.bookings.ListBookings(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.bookings.Book(ctx, "", "b1", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWishlistService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	p := f.product(t, "s1", "iPhone")

	entry, err := f.wishlist.Add(ctx, p.ID, "", "b1", model.Details{"note": "want"})
	require.NoError(t, err)
	assert.Equal(t, "s1", entry.SellerUID)

	_, err = f.wishlist.Add(ctx, p.ID, "", "b1", model.Details{"note": "really want"})
	require.NoError(t, err)

	items, err := f.wishlist.List(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "really want", items[0].Details["note"])
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "iPhone", items[0].Product.Name)

	n, err := f.wishlist.Remove(ctx, p.ID, "b1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	items, err = f.wishlist.List(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.wishlist.Add(ctx, "missing", "", "b1", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPaymentService_Pay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	p := f.product(t, "s1", "iPhone")

	_, err := f.bookings.Book(ctx, p.ID, "b1", nil)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, p.ID, "", "b2", nil)
	require.NoError(t, err)

	payment, err := f.payments.Pay(ctx, p.ID, model.Details{"transactionId": "tx-9"})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.ID)

	got, err := f.store.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)

	bookings, err := f.store.Bookings().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	for _, b := range bookings {
		assert.True(t, b.Paid)
	}
	entries, err := f.store.Wishlist().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, e.Paid)
	}

	payments, err := f.store.Payments().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "tx-9", payments[0].Payload["transactionId"])
}

func TestPaymentService_PayMissingProductAppendsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.payments.Pay(ctx, "missing", model.Details{"transactionId": "tx-1"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	payments, err := f.store.Payments().ListByProduct(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPaymentService_CreateIntent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.payments.CreateIntent(ctx, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.provider.calls)

	intent, err := f.payments.CreateIntent(ctx, decimal.RequireFromString("42.5"))
	require.NoError(t, err)
	assert.Equal(t, "secret-42.5", intent.ClientSecret)
	assert.Equal(t, "usd", f.provider.currency)

	f.provider.err = errors.Join(client.ErrProvider, errors.New("declined"))
	_, err = f.payments.CreateIntent(ctx, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, client.ErrProvider)
}

func TestUserService_DeleteSellerCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	f.user(t, "s2", "seller")
	f.user(t, "b1")
	p := f.product(t, "s1", "iPhone")
	kept := f.product(t, "s2", "Pixel")

	_, err := f.bookings.Book(ctx, p.ID, "b1", nil)
	require.NoError(t, err)
	_, err = f.bookings.Book(ctx, kept.ID, "b1", nil)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, p.ID, "", "b1", nil)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, "s1", model.RoleSeller))

	_, err = f.users.GetUser(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mine, err := f.store.Products().IDsBySeller(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	bookings, err := f.bookings.ListBookings(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, kept.ID, bookings[0].ProductID)

	items, err := f.wishlist.List(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.users.GetUser(ctx, "b1")
	assert.NoError(t, err)
}

func TestUserService_DeleteBuyerCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	f.user(t, "b1")
	p := f.product(t, "s1", "iPhone")

	_, err := f.bookings.Book(ctx, p.ID, "b1", nil)
	require.NoError(t, err)
	_, err = f.wishlist.Add(ctx, p.ID, "", "b1", nil)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, "b1", model.RoleBuyer))

	bookings, err := f.store.Bookings().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	entries, err := f.store.Wishlist().ListByBuyer(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// the product itself survives
	_, err = f.store.Products().Get(ctx, p.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.users.DeleteUser(ctx, "b1", model.RoleBuyer), repository.ErrNotFound)
	assert.ErrorIs(t, f.users.DeleteUser(ctx, "s1", model.RoleAdmin), ErrInvalidInput)
}

func TestUserService_CreateUserRejectsAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, req := range []*dto.CreateUserRequest{
		{UID: "evil", Role: "admin"},
		{UID: "evil", Roles: []string{"buyer", "admin"}},
	} {
		_, err := f.users.CreateUser(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	_, err := f.users.GetUser(ctx, "evil")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserService_DeleteUserRequiresMatchingRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")
	p := f.product(t, "s1", "iPhone")

	err := f.users.DeleteUser(ctx, "s1", model.RoleBuyer)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.GetUser(ctx, "s1")
	assert.NoError(t, err)
	_, err = f.store.Products().Get(ctx, p.ID)
	assert.NoError(t, err)
}

func TestUserService_ProvisionAdmins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", "seller")

	require.NoError(t, f.users.ProvisionAdmins(ctx, []string{"root", " s1 ", ""}))
	require.NoError(t, f.users.ProvisionAdmins(ctx, []string{"root", "s1"}))

	root, err := f.users.GetUser(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleAdmin}, root.Roles)

	promoted, err := f.users.GetUser(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleSeller, model.RoleAdmin}, promoted.Roles)

	// re-signup keeps the provisioned roles
	_, err = f.users.CreateUser(ctx, &dto.CreateUserRequest{UID: "root", Name: "Root"})
	require.NoError(t, err)
	root, err = f.users.GetUser(ctx, "root")
	require.NoError(t, err)
	assert.True(t, root.Roles.Has(model.RoleAdmin))
	assert.Equal(t, "Root", root.Name)
}
