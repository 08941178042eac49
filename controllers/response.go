package controllers

import (
	"net/http"

	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidInput        = "Invalid request body"
	msgInternalServerError = "Internal server error"
)

func sendJSONResponse(ctx *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	ctx.JSON(status, body)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": false, "message": message})
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindInvalidState:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the envelope for a service error. Unexpected errors
// carry the underlying cause in "error".
func respondWithError(ctx *gin.Context, err error) {
	kind := services.KindOf(err)
	status := statusFor(kind)
	body := gin.H{"success": false, "message": services.MessageOf(err)}
	if kind == services.KindUnexpected {
		zap.L().Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err))
		body["error"] = err.Error()
	}
	_ = ctx.Error(err)
	ctx.JSON(status, body)
}

// currentIdentity returns the caller set by the auth middleware, answering
// 401 itself when there is none.
func currentIdentity(ctx *gin.Context) (services.Identity, bool) {
	identity, ok := middlewares.IdentityFrom(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "No token provided")
	}
	return identity, ok
}
