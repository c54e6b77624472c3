package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/server/http/dto"
	"github.com/polkiloo/finapi/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) string {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

func statusFor(kind domainErrors.Kind) int {
	switch kind {
	case domainErrors.KindInvalidInput, domainErrors.KindInsufficientFunds:
		return http.StatusBadRequest
	case domainErrors.KindIncorrectCredentials:
		return http.StatusUnauthorized
	case domainErrors.KindUserNotFound, domainErrors.KindStatementNotFound:
		return http.StatusNotFound
	case domainErrors.KindUserAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError translates use case failures into a JSON error response.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(domainErrors.KindOf(err))
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message})
}

func badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "malformed request body"})
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toStatementResponse(s model.Statement) dto.StatementResponse {
	return dto.StatementResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Type:        string(s.Type),
		Amount:      s.Amount,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
