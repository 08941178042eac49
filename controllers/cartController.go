package controllers

import (
	"net/http"

	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

func GetCart(carts *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		cart, err := carts.GetCart(ctx.Request.Context(), identity.UserID)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", cart)
	}
}

func AddToCart(carts *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		var input services.AddItemInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		cart, err := carts.AddItem(ctx.Request.Context(), identity.UserID, input)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Item added to cart", cart)
	}
}

func UpdateCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		var input services.UpdateQuantityInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid item ID or quantity")
			return
		}
		cart, err := carts.UpdateQuantity(ctx.Request.Context(), identity.UserID, input.ItemID, input.Quantity)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Cart updated", cart)
	}
}

func RemoveFromCart(carts *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		cart, err := carts.RemoveItem(ctx.Request.Context(), identity.UserID, ctx.Param("itemId"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Item removed from cart", cart)
	}
}

func ClearCart(carts *services.CartService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		cart, err := carts.ClearCart(ctx.Request.Context(), identity.UserID)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Cart cleared", cart)
	}
}
