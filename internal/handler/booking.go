package handler

import (
	"net/http"

	"secondhand-market/internal/dto"
	"secondhand-market/internal/middleware"
	"secondhand-market/internal/model"
	"secondhand-market/internal/service"

	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	bookingService  service.BookingService
	wishlistService service.WishlistService
}

func NewBookingHandler(bookingService service.BookingService, wishlistService service.WishlistService) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		wishlistService: wishlistService,
	}
}

// bindDetails reads a free-form JSON object body and pulls out the identity
// keys; whatever is left is stored as the record's details.
func bindDetails(c echo.Context, keys ...string) (map[string]string, model.Details, error) {
	details := model.Details{}
	if err := c.Bind(&details); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	ids := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := details[k].(string); ok {
			ids[k] = v
		}
		delete(details, k)
	}

	return ids, details, nil
}

func (h *BookingHandler) Book(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	ids, details, err := bindDetails(c, "product_id", "buyer_uid")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Book(ctx, ids["product_id"], identity.UID, details)
	if err != nil {
		return failure(err, "BOOKING POST FAILED")
	}

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	bookings, err := h.bookingService.ListBookings(ctx, identity.UID)
	if err != nil {
		return failure(err, "BOOKINGS FETCH FAILED")
	}

	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	ids, details, err := bindDetails(c, "product_id", "seller_uid", "buyer_uid")
	if err != nil {
		return err
	}

	entry, err := h.wishlistService.Add(ctx, ids["product_id"], ids["seller_uid"], identity.UID, details)
	if err != nil {
		return failure(err, "WISHLIST POST FAILED")
	}

	return c.JSON(http.StatusOK, entry)
}

func (h *BookingHandler) ListWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	items, err := h.wishlistService.List(ctx, identity.UID)
	if err != nil {
		return failure(err, "WISHLIST FETCH FAILED")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *BookingHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	n, err := h.wishlistService.Remove(ctx, c.QueryParam("product_id"), identity.UID)
	if err != nil {
		return failure(err, "WISHLIST DELETE FAILED")
	}

	return c.JSON(http.StatusOK, &dto.DeleteResponse{Error: false, DeletedCount: n})
}
