package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftedmarket/api/internal/api/handler/v1/response"
	"github.com/craftedmarket/api/internal/api/middleware"
	"github.com/craftedmarket/api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetVendorByUserID(ctx context.Context, userID uint) (domain.Vendor, error)
}

// getUserFromContext resolves the authenticated caller stored by the
// JWT middleware.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("missing authentication")
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("invalid authentication")
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized("unknown user")
	}

	return user, nil
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      plain
// @Success      200 {string} string "OK"
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}
