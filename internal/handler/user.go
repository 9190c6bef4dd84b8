package handler

import (
	"errors"
	"net/http"
	"strings"

	"secondhand-market/internal/auth"
	"secondhand-market/internal/dto"
	"secondhand-market/internal/model"
	"secondhand-market/internal/repository"
	"secondhand-market/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
	tokens      *auth.TokenService
}

func NewUserHandler(userService service.UserService, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// IssueToken signs a token for the uid header with the roles stored for that
// user. Unknown users get a token without roles so they can finish signup.
func (h *UserHandler) IssueToken(c echo.Context) error {
	ctx := c.Request().Context()

	uid := strings.TrimSpace(c.Request().Header.Get("uid"))
	if uid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing uid header")
	}

	var roles model.Roles
	user, err := h.userService.GetUser(ctx, uid)
	switch {
	case err == nil:
		roles = user.Roles
	case errors.Is(err, repository.ErrNotFound):
	default:
		return failure(err, "TOKEN SIGNING FAILED")
	}

	token, err := h.tokens.Issue(uid, roles)
	if err != nil {
		return failure(err, "TOKEN SIGNING FAILED")
	}

	return c.JSON(http.StatusOK, &dto.AuthResponse{
		Error:     false,
		AuthToken: token,
	})
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	role := model.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	users, err := h.userService.ListUsers(ctx, role)
	if err != nil {
		return failure(err, "USERS FETCH FAILED")
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.userService.GetUser(ctx, c.Param("id"))
	if err != nil {
		return failure(err, "USER FETCH FAILED")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		return failure(err, "USER POST FAILED!!")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) VerifyUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.UID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "uid is required")
	}

	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	if err := h.userService.SetVerified(ctx, req.UID, verified); err != nil {
		return failure(err, "USER VERIFICATION FAILED")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"error":    false,
		"uid":      req.UID,
		"verified": verified,
	})
}

func (h *UserHandler) DeleteBuyer(c echo.Context) error {
	return h.deleteUser(c, model.RoleBuyer, "BUYER DELETE FAILED")
}

func (h *UserHandler) DeleteSeller(c echo.Context) error {
	return h.deleteUser(c, model.RoleSeller, "SELLER DELETE FAILED")
}

func (h *UserHandler) deleteUser(c echo.Context, role model.Role, message string) error {
	ctx := c.Request().Context()

	uid := c.QueryParam("uid")
	if uid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "uid is required")
	}

	if err := h.userService.DeleteUser(ctx, uid, role); err != nil {
		return failure(err, message)
	}

	return c.JSON(http.StatusOK, &dto.DeleteResponse{Error: false, DeletedCount: 1})
}
