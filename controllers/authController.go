package controllers

import (
	"net/http"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

const (
	msgUserCreated  = "User registered successfully"
	msgLoginSuccess = "Login successful"
)

func Register(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input services.RegisterInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		user, token, err := auth.Register(ctx.Request.Context(), input)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusCreated, msgUserCreated, gin.H{"user": user, "token": token})
	}
}

func Login(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var loginData models.LoginData
		if err := ctx.ShouldBindJSON(&loginData); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		user, token, err := auth.Login(ctx.Request.Context(), loginData)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, msgLoginSuccess, gin.H{"user": user, "token": token})
	}
}

func GetCurrentUser(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		user, err := auth.Me(ctx.Request.Context(), identity.UserID)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", user)
	}
}

func UpdateProfile(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		var input services.ProfileInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		user, err := auth.UpdateProfile(ctx.Request.Context(), identity.UserID, input)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Profile updated", user)
	}
}
