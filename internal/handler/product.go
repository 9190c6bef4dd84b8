package handler

import (
	"net/http"
	"strconv"

	"secondhand-market/internal/dto"
	"secondhand-market/internal/middleware"
	"secondhand-market/internal/model"
	"secondhand-market/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.productService.ListCategories(ctx, c.QueryParam("categoryId"))
	if err != nil {
		return failure(err, "CATEGORIES FETCH FAILED")
	}

	return c.JSON(http.StatusOK, categories)
}

// ListProducts accepts categoryId, advertised and product_id; supplied
// parameters narrow the result together.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := model.ProductFilter{}.
		WithProductID(c.QueryParam("product_id")).
		WithCategory(c.QueryParam("categoryId"))

	if raw := c.QueryParam("advertised"); raw != "" {
		advertised, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "advertised must be true or false")
		}
		filter = filter.WithAdvertised(advertised)
	}

	products, err := h.productService.ListProducts(ctx, filter)
	if err != nil {
		return failure(err, "PRODUCTS FETCH FAILED")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) MyProducts(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	products, err := h.productService.SellerProducts(ctx, identity.UID)
	if err != nil {
		return failure(err, "PRODUCTS FETCH FAILED")
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	var req dto.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.CreateProduct(ctx, identity.UID, &req)
	if err != nil {
		return failure(err, "PRODUCT POST FAILED")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Advertise(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	var req dto.AdvertiseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	advertised := true
	if req.Advertised != nil {
		advertised = *req.Advertised
	}

	if err := h.productService.Advertise(ctx, req.ProductID, identity.UID, advertised); err != nil {
		return failure(err, "PRODUCT UPDATE FAILED")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"error":      false,
		"product_id": req.ProductID,
		"advertised": advertised,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	if err := h.productService.DeleteProduct(ctx, c.QueryParam("product_id"), identity.UID); err != nil {
		return failure(err, "PRODUCT DELETE FAILED")
	}

	return c.JSON(http.StatusOK, &dto.DeleteResponse{Error: false, DeletedCount: 1})
}
