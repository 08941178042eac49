package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"go.uber.org/zap"
)

type Action string

const (
	ActionAdvance     Action = "advance"
	ActionUserCancel  Action = "user_cancel"
	ActionAdminCancel Action = "admin_cancel"
	ActionComplete    Action = "complete"
	ActionSetStatus   Action = "set_status"
)

type rule struct {
	verb string
	// next maps every status the action may start from to the status it ends in.
	next map[models.OrderStatus]models.OrderStatus
	// override actions are admin-only and skip next entirely.
	override bool
	to       models.OrderStatus
}

// transitions is the single table every status change goes through. Admin
// overrides are listed here so the policy is visible in one place.
var transitions = map[Action]rule{
	ActionAdvance: {
		verb: "advance",
		next: map[models.OrderStatus]models.OrderStatus{
			models.OrderStatusPending:    models.OrderStatusProcessing,
			models.OrderStatusProcessing: models.OrderStatusShipped,
			models.OrderStatusShipped:    models.OrderStatusDelivered,
		},
	},
	ActionUserCancel: {
		verb: "cancel",
		next: map[models.OrderStatus]models.OrderStatus{
			models.OrderStatusPending:    models.OrderStatusCancelled,
			models.OrderStatusProcessing: models.OrderStatusCancelled,
			models.OrderStatusShipped:    models.OrderStatusCancelled,
		},
	},
	ActionAdminCancel: {
		verb: "cancel",
		next: map[models.OrderStatus]models.OrderStatus{
			models.OrderStatusPending:    models.OrderStatusCancelled,
			models.OrderStatusProcessing: models.OrderStatusCancelled,
			models.OrderStatusShipped:    models.OrderStatusCancelled,
			models.OrderStatusCancelled:  models.OrderStatusCancelled,
		},
	},
	ActionComplete:  {verb: "complete", override: true, to: models.OrderStatusDelivered},
	ActionSetStatus: {verb: "update", override: true},
}

// Transition resolves the status an order in current ends up in after action.
// requested is only read by ActionSetStatus.
func Transition(current models.OrderStatus, action Action, requested models.OrderStatus) (models.OrderStatus, error) {
	r, ok := transitions[action]
	if !ok {
		return current, Validation(fmt.Sprintf("Unknown order action %q", action))
	}
	if r.override {
		if r.to != "" {
			return r.to, nil
		}
		return requested, nil
	}
	next, ok := r.next[current]
	if !ok {
		return current, InvalidState(fmt.Sprintf("Cannot %s %s order", r.verb, strings.ToLower(string(current))))
	}
	return next, nil
}

// LifecycleService applies status changes to stored orders.
type LifecycleService struct {
	orders   store.OrderStore
	notifier OrderNotifier
	log      *zap.Logger
}

func NewLifecycleService(orders store.OrderStore, notifier OrderNotifier, log *zap.Logger) *LifecycleService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &LifecycleService{orders: orders, notifier: notifier, log: log}
}

type UpdateStatusInput struct {
	OrderStatus   *models.OrderStatus   `json:"orderStatus"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
}

func (s *LifecycleService) find(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.orders.FindOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, NotFound(msgOrderNotFound)
	}
	if err != nil {
		return models.Order{}, Unexpected("Error fetching order", err)
	}
	return order, nil
}

func (s *LifecycleService) save(ctx context.Context, order models.Order, action Action) (models.Order, error) {
	saved, err := s.orders.SaveOrder(ctx, order)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, NotFound(msgOrderNotFound)
	}
	if err != nil {
		return models.Order{}, Unexpected("Error updating order", err)
	}
	s.log.Info("order status changed",
		zap.String("order_number", saved.OrderNumber),
		zap.String("action", string(action)),
		zap.String("order_status", string(saved.OrderStatus)),
		zap.String("payment_status", string(saved.PaymentStatus)))
	s.notifier.OrderUpdated(ctx, saved)
	return saved, nil
}

// apply loads the order, runs it through the transition table and stores the
// result.
func (s *LifecycleService) apply(ctx context.Context, orderID string, action Action, mutate func(*models.Order) error) (models.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if err := mutate(&order); err != nil {
		return models.Order{}, err
	}
	return s.save(ctx, order, action)
}

func (s *LifecycleService) step(action Action) func(*models.Order) error {
	return func(order *models.Order) error {
		next, err := Transition(order.OrderStatus, action, "")
		if err != nil {
			return err
		}
		order.OrderStatus = next
		return nil
	}
}

// UpdateStatus overwrites whichever status fields are supplied. It does not
// check transition legality.
func (s *LifecycleService) UpdateStatus(ctx context.Context, orderID string, in UpdateStatusInput) (models.Order, error) {
	if in.OrderStatus != nil && !in.OrderStatus.Valid() {
		return models.Order{}, Validation("Invalid order status")
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return models.Order{}, Validation("Invalid payment status")
	}
	return s.apply(ctx, orderID, ActionSetStatus, func(order *models.Order) error {
		if in.OrderStatus != nil {
			next, err := Transition(order.OrderStatus, ActionSetStatus, *in.OrderStatus)
			if err != nil {
				return err
			}
			order.OrderStatus = next
		}
		if in.PaymentStatus != nil {
			order.PaymentStatus = *in.PaymentStatus
		}
		return nil
	})
}

// UserCancel cancels an order on behalf of its owner. Orders of other users
// are reported as missing.
func (s *LifecycleService) UserCancel(ctx context.Context, orderID, userID string) (models.Order, error) {
	return s.apply(ctx, orderID, ActionUserCancel, func(order *models.Order) error {
		if order.UserID != userID {
			return NotFound(msgOrderNotFound)
		}
		return s.step(ActionUserCancel)(order)
	})
}

func (s *LifecycleService) AdminCancel(ctx context.Context, orderID string) (models.Order, error) {
	return s.apply(ctx, orderID, ActionAdminCancel, s.step(ActionAdminCancel))
}

// Advance moves a fulfilment step forward: Pending to Processing to Shipped
// to Delivered.
func (s *LifecycleService) Advance(ctx context.Context, orderID string) (models.Order, error) {
	return s.apply(ctx, orderID, ActionAdvance, s.step(ActionAdvance))
}

// Complete marks the order delivered and paid whatever its current state.
func (s *LifecycleService) Complete(ctx context.Context, orderID string) (models.Order, error) {
	return s.apply(ctx, orderID, ActionComplete, func(order *models.Order) error {
		if err := s.step(ActionComplete)(order); err != nil {
			return err
		}
		order.PaymentStatus = models.PaymentStatusPaid
		return nil
	})
}

func (s *LifecycleService) Delete(ctx context.Context, orderID string) error {
	err := s.orders.DeleteOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound(msgOrderNotFound)
	}
	if err != nil {
		return Unexpected("Error deleting order", err)
	}
	s.log.Info("order deleted", zap.String("order_id", orderID))
	return nil
}
