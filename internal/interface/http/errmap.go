package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/pkg/response"
)

// statusOf maps service sentinels to HTTP statuses. Unknown errors become 500
// with a generic message so internals never leak.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, application.ErrAccountNotActive):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrSlugTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrRequestNotFound),
		errors.Is(err, application.ErrNoVerification),
		errors.Is(err, application.ErrPostNotFound),
		errors.Is(err, application.ErrCategoryNotFound),
		errors.Is(err, application.ErrTagNotFound),
		errors.Is(err, application.ErrMediaNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, application.ErrInvalidRole),
		errors.Is(err, application.ErrOTPExpired),
		errors.Is(err, application.ErrOTPInvalid),
		errors.Is(err, application.ErrInvalidDecision),
		errors.Is(err, application.ErrActivationKeyWrong),
		errors.Is(err, application.ErrActivationDisabled):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func failWith(c *gin.Context, err error) {
	status, msg := statusOf(err)
	response.Fail(c, status, msg, nil)
}
