package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hoangminh-dev/streetstore/internal/models"
)

type OrderRepo struct {
	DB *gorm.DB
}

// OrderWithItems is the shape both the customer and the back office see.
type OrderWithItems struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// CreateFromCart turns the user's cart into an order in one
// transaction: price every line against the current catalog, write the
// order and its items, then clear the cart.
func (r *OrderRepo) CreateFromCart(ctx context.Context, userID uint) (*OrderWithItems, error) {
	var order models.Order
	var orderItems []models.OrderItem

	txErr := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		prices := make(map[uint]float64, len(items))
		for _, it := range items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", it.ProductID, ErrNotFound)
				}
				return err
			}
			prices[it.ProductID] = p.Price
			total += float64(it.Quantity) * p.Price
		}

		order = models.Order{
			Reference: uuid.NewString(),
			UserID:    userID,
			Total:     total,
			Status:    "new",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems = make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: prices[it.ProductID],
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			orderItems = append(orderItems, oi)
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return &OrderWithItems{Order: order, Items: orderItems}, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID uint) ([]OrderWithItems, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]OrderWithItems, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *OrderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

func (r *OrderRepo) attachItems(ctx context.Context, orders []models.Order) ([]OrderWithItems, error) {
	out := make([]OrderWithItems, 0, len(orders))
	for _, o := range orders {
		var items []models.OrderItem
		if err := r.DB.WithContext(ctx).Where("order_id = ?", o.ID).Find(&items).Error; err != nil {
			return nil, err
		}
		out = append(out, OrderWithItems{Order: o, Items: items})
	}
	return out, nil
}
