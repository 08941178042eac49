package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Storefront API. The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user or admin account
- GET "/auth/me" - Current user
- PUT "/auth/profile" - Update profile and shipping address

PRODUCT
- GET "/products/:code" - Get product by code
- GET "/products/category/:category" - Products in a category
- POST "/products" - Create product (admin)
- POST "/products/:code/images" - Upload product images (admin)

CART
- GET "/cart" - Current cart
- POST "/cart/add" - Add item
- PUT "/cart/update" - Change item quantity
- DELETE "/cart/remove/:itemId" - Remove item
- DELETE "/cart/clear" - Empty cart

ORDER
- POST "/orders/create" - Place order from cart or items
- GET "/orders" - My orders
- GET "/orders/:orderId" - My order by ID
- PUT "/orders/cancel/:orderId" - Cancel my order
- GET "/orders/allorders" - All orders (admin)
- GET "/orders/status/:status" - Orders by status (admin)
- GET "/orders/undelivered-count" - Open order count (admin)
- GET "/orders/export" - Excel export (admin)
- GET "/orders/feed" - Live order feed (admin, websocket)
- GET "/orders/admin/:id" - Any order by ID (admin)
- PATCH "/orders/:id/status" - Set order/payment status (admin)
- PATCH "/orders/:id/advance" - Next fulfilment step (admin)
- PATCH "/orders/:id/complete" - Mark delivered and paid (admin)
- PATCH "/orders/:id/cancel" - Cancel order (admin)
- DELETE "/orders/:id" - Delete order (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

func Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}
