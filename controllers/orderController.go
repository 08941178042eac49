package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/notify"
	"github.com/Kariqs/storefront-api/services"
	"github.com/Kariqs/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultPageLimit = 20

func CreateOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		var request services.CreateOrderRequest
		if err := ctx.ShouldBindJSON(&request); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		order, err := orders.CreateOrder(ctx.Request.Context(), identity.UserID, request.Source(), request.Options())
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusCreated, "Order placed successfully", order)
	}
}

func GetUserOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		list, err := orders.ListUserOrders(ctx.Request.Context(), identity.UserID)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", list)
	}
}

func GetUserOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		order, err := orders.GetUserOrder(ctx.Request.Context(), ctx.Param("orderId"), identity.UserID)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", order)
	}
}

func CancelUserOrder(lifecycle *services.LifecycleService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := currentIdentity(ctx)
		if !ok {
			return
		}
		order, err := lifecycle.UserCancel(ctx.Request.Context(), ctx.Param("orderId"), identity.UserID)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Order cancelled successfully", order)
	}
}

// GetAllOrders lists every order for the admin dashboard, newest first unless
// sort=oldest.
func GetAllOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid page number")
			return
		}
		limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
		if err != nil || limit < 0 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid limit")
			return
		}

		result, err := orders.ListAllOrders(ctx.Request.Context(), services.Page{
			Page:        page,
			Limit:       limit,
			OldestFirst: ctx.Query("sort") == "oldest",
		})
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", result)
	}
}

func GetOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		order, err := orders.GetOrder(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", order)
	}
}

func GetOrdersByStatus(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		list, err := orders.ListByStatus(ctx.Request.Context(), models.OrderStatus(ctx.Param("status")))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", list)
	}
}

func GetUndeliveredCount(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		count, err := orders.CountUndelivered(ctx.Request.Context())
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", gin.H{"count": count})
	}
}

func ExportOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := orders.ListAllOrders(ctx.Request.Context(), services.Page{})
		if err != nil {
			respondWithError(ctx, err)
			return
		}

		var buf bytes.Buffer
		if err := utils.WriteOrdersWorkbook(&buf, result.Orders); err != nil {
			zap.L().Error("order export failed", zap.Error(err))
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to write Excel file")
			return
		}

		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
		ctx.Header("Content-Disposition", "attachment; filename="+filename)
		ctx.Data(http.StatusOK, utils.XLSXContentType, buf.Bytes())
	}
}

// OrderFeed upgrades to a websocket that receives every order event.
func OrderFeed(hub *notify.Hub) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := hub.ServeWS(ctx.Writer, ctx.Request); err != nil {
			zap.L().Warn("feed upgrade failed", zap.Error(err))
		}
	}
}

func UpdateOrderStatus(lifecycle *services.LifecycleService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input services.UpdateStatusInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		order, err := lifecycle.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), input)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Order status updated", order)
	}
}

func CompleteOrder(lifecycle *services.LifecycleService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		order, err := lifecycle.Complete(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Order marked as completed", order)
	}
}

func AdminCancelOrder(lifecycle *services.LifecycleService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		order, err := lifecycle.AdminCancel(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Order cancelled successfully", order)
	}
}

func AdvanceOrder(lifecycle *services.LifecycleService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		order, err := lifecycle.Advance(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Order moved to "+string(order.OrderStatus), order)
	}
}

func DeleteOrder(lifecycle *services.LifecycleService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := lifecycle.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "Order deleted successfully", nil)
	}
}
