package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, user_id, total, profit, payment_method, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.UserID, sale.Total, sale.Profit, sale.PaymentMethod, sale.Date, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta con sus valores snapshot.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, name, quantity, unit_price, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, user_id, total, profit, payment_method, date, created_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.UserID, &s.Total, &s.Profit, &s.PaymentMethod, &s.Date, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.itemsBySale(s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// ListByUser devuelve las ventas del usuario, más recientes primero, con sus
// líneas cargadas en una sola consulta adicional.
func (r *SaleRepo) ListByUser(userID string) ([]*entity.Sale, error) {
	query := `
		SELECT id, user_id, total, profit, payment_method, date, created_at
		FROM sales WHERE user_id = $1 ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	index := make(map[string]*entity.Sale)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.Total, &s.Profit, &s.PaymentMethod, &s.Date, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
		index[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	itemQuery := `
		SELECT i.id, i.sale_id, i.product_id, i.name, i.quantity, i.unit_price, i.unit_cost
		FROM sale_items i JOIN sales s ON s.id = i.sale_id
		WHERE s.user_id = $1`
	itemRows, err := r.q.Query(context.Background(), itemQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.SaleItem
		if err := itemRows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := index[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return list, itemRows.Err()
}

// DeleteByDateRange elimina las ventas del usuario con fecha en [from, to).
// Las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) DeleteByDateRange(userID string, from, to time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM sales WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("delete sales by range: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *SaleRepo) itemsBySale(saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, product_id, name, quantity, unit_price, unit_cost FROM sale_items WHERE sale_id = $1`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
