package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/attire-shop/attire/internal/domain"
)

// OrderStore implements domain.OrderStore using PostgreSQL. A purchase and
// its line items are written in one transaction; a partially persisted
// order is never visible.
type OrderStore struct {
	db DB
}

var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a PostgreSQL-backed order store.
func NewOrderStore(db DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create persists a purchase with its item snapshot and address snapshots.
func (s *OrderStore) Create(ctx context.Context, params domain.CreatePurchaseParams) (*domain.Purchase, error) {
	shippingJSON, err := json.Marshal(params.ShippingAddress)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to serialize shipping address")
	}
	billingJSON, err := json.Marshal(params.BillingAddress)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to serialize billing address")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	purchase := &domain.Purchase{
		ID:              uuid.NewString(),
		UserID:          params.UserID,
		Items:           params.Items,
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  params.BillingAddress,
		ShippingMethod:  params.ShippingMethod,
		Total:           params.Total,
		PaymentIntentID: params.PaymentIntentID,
		Status:          params.Status,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (id, user_id, shipping_address, billing_address,
			shipping_method, total, payment_intent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		purchase.ID, params.UserID, shippingJSON, billingJSON,
		params.ShippingMethod, params.Total, params.PaymentIntentID, params.Status,
	).Scan(&purchase.CreatedAt)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to create purchase")
	}

	for _, item := range params.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO purchase_items (purchase_id, product_id, name, price, size, color, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			purchase.ID, item.ProductID, item.Name, item.Price, item.Size, item.Color, item.Quantity)
		if err != nil {
			return nil, domain.Internal(err, "order.create", "failed to create purchase item")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "order.create", "failed to commit purchase")
	}

	return purchase, nil
}

// ListForUser returns the user's purchases with their items, newest first.
func (s *OrderStore) ListForUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, shipping_address, billing_address, shipping_method,
			total, payment_intent_id, status, created_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "order.list_for_user", "failed to list purchases")
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var (
			p            domain.Purchase
			shippingJSON []byte
			billingJSON  []byte
		)
		err := rows.Scan(&p.ID, &p.UserID, &shippingJSON, &billingJSON,
			&p.ShippingMethod, &p.Total, &p.PaymentIntentID, &p.Status, &p.CreatedAt)
		if err != nil {
			return nil, domain.Internal(err, "order.list_for_user", "failed to scan purchase")
		}
		if err := json.Unmarshal(shippingJSON, &p.ShippingAddress); err != nil {
			return nil, domain.Internal(err, "order.list_for_user", "failed to parse shipping address")
		}
		if err := json.Unmarshal(billingJSON, &p.BillingAddress); err != nil {
			return nil, domain.Internal(err, "order.list_for_user", "failed to parse billing address")
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list_for_user", "failed to read purchases")
	}

	for i := range purchases {
		items, err := s.listItems(ctx, purchases[i].ID)
		if err != nil {
			return nil, err
		}
		purchases[i].Items = items
	}

	return purchases, nil
}

// UpdateStatus moves a purchase to a new status.
func (s *OrderStore) UpdateStatus(ctx context.Context, purchaseID, status string) error {
	switch status {
	case domain.OrderPending, domain.OrderCompleted, domain.OrderCancelled:
	default:
		return domain.Invalid("order.update_status", "unknown status: "+status)
	}

	tag, err := s.db.Exec(ctx, `UPDATE purchases SET status = $2 WHERE id = $1`, purchaseID, status)
	if err != nil {
		return domain.Internal(err, "order.update_status", "failed to update purchase status")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("order.update_status", "purchase", purchaseID)
	}
	return nil
}

func (s *OrderStore) listItems(ctx context.Context, purchaseID string) ([]domain.PurchaseItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT product_id, name, price, size, color, quantity
		FROM purchase_items
		WHERE purchase_id = $1
		ORDER BY id`, purchaseID)
	if err != nil {
		return nil, domain.Internal(err, "order.list_items", "failed to list purchase items")
	}
	defer rows.Close()

	var items []domain.PurchaseItem
	for rows.Next() {
		var item domain.PurchaseItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Size, &item.Color, &item.Quantity); err != nil {
			return nil, domain.Internal(err, "order.list_items", "failed to scan purchase item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list_items", "failed to read purchase items")
	}
	return items, nil
}
