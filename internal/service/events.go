package service

import (
	"context"
	"fmt"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/pkg/logger"
)

// EventPublisher delivers live notifications to connected clients. Publish
// must not block the caller.
type EventPublisher interface {
	Publish(event interface{})
}

// Cache is the cache-aside store used for report aggregates.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

const (
	EventStockUpdate = "stock_update"

	ActionProductCreated = "product_created"
	ActionProductUpdated = "product_updated"
	ActionProductDeleted = "product_deleted"
	ActionStockAdjusted  = "stock_adjusted"
	ActionSaleCreated    = "sale_created"
	ActionSaleCanceled   = "sale_canceled"
)

// StockEvent is the payload pushed to websocket clients.
type StockEvent struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data"`
	User    model.Actor `json:"user"`
	Message string      `json:"message"`
}

func publish(p EventPublisher, action string, actor model.Actor, data interface{}, format string, args ...interface{}) {
	if p == nil {
		return
	}
	p.Publish(StockEvent{
		Type:    EventStockUpdate,
		Action:  action,
		Data:    data,
		User:    actor,
		Message: fmt.Sprintf(format, args...),
	})
}

const summaryCacheKey = "reports:summary"

// invalidateSummary drops the cached summary after a committed stock change.
func invalidateSummary(ctx context.Context, c Cache) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, summaryCacheKey); err != nil {
		logger.Warn("summary cache invalidation failed: %v", err)
	}
}
