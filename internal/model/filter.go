package model

// ProductFilter combines its predicates with AND. Zero values mean
// "no constraint".
type ProductFilter struct {
	ProductID  string
	CategoryID string
	SellerUID  string
	Advertised *bool

	// IncludePaid lifts the default exclusion of paid products.
	IncludePaid bool
}

func (f ProductFilter) WithProductID(id string) ProductFilter {
	f.ProductID = id
	return f
}

func (f ProductFilter) WithCategory(categoryID string) ProductFilter {
	f.CategoryID = categoryID
	return f
}

func (f ProductFilter) WithSeller(sellerUID string) ProductFilter {
	f.SellerUID = sellerUID
	return f
}

func (f ProductFilter) WithAdvertised(advertised bool) ProductFilter {
	f.Advertised = &advertised
	return f
}

func (f ProductFilter) WithPaid() ProductFilter {
	f.IncludePaid = true
	return f
}

// ExcludesPaid reports whether paid products must be left out. A product
// requested by id is always returned so receipts stay reachable.
func (f ProductFilter) ExcludesPaid() bool {
	return !f.IncludePaid && f.ProductID == ""
}
