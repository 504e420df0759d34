package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UpsertItemRequest struct {
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	BuyingRate  decimal.Decimal `json:"buying_rate"`
	SellingRate decimal.Decimal `json:"selling_rate"`
}

type Service interface {
	// ReserveAndDecrement locks the item matched by description (trimmed,
	// case-insensitive), verifies on-hand quantity and decrements it. Must be
	// called inside the caller's transaction; the decrement becomes visible
	// only when that transaction commits.
	ReserveAndDecrement(ctx context.Context, tx *gorm.DB, userID snowflake.ID, description string, qty decimal.Decimal) (snowflake.ID, error)

	// Upsert adds stock: creates the item or adds quantity and refreshes the
	// rates of an existing one.
	Upsert(ctx context.Context, userID snowflake.ID, req UpsertItemRequest) (Item, error)

	// Names lists the user's item names in ascending order.
	Names(ctx context.Context, userID snowflake.ID) ([]string, error)

	// Info returns a single item matched by name.
	Info(ctx context.Context, userID snowflake.ID, name string) (Item, error)
}

var (
	ErrItemNotFound      = errors.New("item_not_found")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrInvalidItem       = errors.New("invalid_item")
)
