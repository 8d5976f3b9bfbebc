package merchant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"merchant-kit/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresMerchant implements Merchant against a PostgreSQL catalogue and
// order store. It is the reference adapter for merchants whose backend is
// a relational database.
type postgresMerchant struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresMerchant creates a PostgreSQL-backed merchant adapter.
func NewPostgresMerchant(pool *pgxpool.Pool, logger zerolog.Logger) Merchant {
	return &postgresMerchant{
		pool:   pool,
		logger: logger.With().Str("merchant", "postgres").Logger(),
	}
}

// LookupProducts searches the products table with dynamically composed
// filters and attaches each product's variations.
func (m *postgresMerchant) LookupProducts(ctx context.Context, query ProductQuery) ([]map[string]any, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLookupLimit
	}

	qb := squirrel.
		Select("id", "name", "base_price", "stock_level", "description", "image").
		From("products").
		OrderBy("name").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if query.ProductID != "" {
		qb = qb.Where(squirrel.Eq{"id": query.ProductID})
	}
	if query.NameContains != "" {
		qb = qb.Where(squirrel.ILike{"name": "%" + query.NameContains + "%"})
	}
	if query.DescContains != "" {
		qb = qb.Where(squirrel.ILike{"description": "%" + query.DescContains + "%"})
	}
	if query.Query != "" {
		pattern := "%" + query.Query + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if query.PriceMin != nil {
		qb = qb.Where(squirrel.GtOrEq{"base_price": *query.PriceMin})
	}
	if query.PriceMax != nil {
		qb = qb.Where(squirrel.LtOrEq{"base_price": *query.PriceMax})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	rows, err := m.pool.Query(ctx, sql, args...)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []map[string]any
	var ids []string
	for rows.Next() {
		var (
			id, name           string
			basePrice          float64
			stockLevel         int
			description, image *string
		)
		if err := rows.Scan(&id, &name, &basePrice, &stockLevel, &description, &image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		product := map[string]any{
			"id":          id,
			"name":        name,
			"base_price":  basePrice,
			"stock_level": stockLevel,
		}
		if description != nil {
			product["description"] = *description
		}
		if image != nil {
			product["image"] = *image
		}
		products = append(products, product)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if len(products) > 0 {
		variations, err := m.loadVariations(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, product := range products {
			id := product["id"].(string)
			if vars, ok := variations[id]; ok {
				product["variations"] = vars
			}
		}
	}

	m.logger.Debug().
		Str("query", query.Query).
		Str("product_id", query.ProductID).
		Int("count", len(products)).
		Msg("product lookup")

	return products, nil
}

func (m *postgresMerchant) loadVariations(ctx context.Context, productIDs []string) (map[string][]map[string]any, error) {
	query := `
		SELECT product_id, type, name, price_modifier
		FROM product_variations
		WHERE product_id = ANY($1)
		ORDER BY product_id, type, name
	`

	rows, err := m.pool.Query(ctx, query, productIDs)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to query product variations")
		return nil, fmt.Errorf("failed to query product variations: %w", err)
	}
	defer rows.Close()

	variations := make(map[string][]map[string]any)
	for rows.Next() {
		var (
			productID, vtype, vname string
			modifier                float64
		)
		if err := rows.Scan(&productID, &vtype, &vname, &modifier); err != nil {
			return nil, fmt.Errorf("failed to scan variation: %w", err)
		}
		variations[productID] = append(variations[productID], map[string]any{
			"type":           vtype,
			"name":           vname,
			"price_modifier": modifier,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variations: %w", err)
	}

	return variations, nil
}

// CreateOrder prices each line from the catalogue, persists the order and
// its items in one transaction, and returns the raw order payload.
func (m *postgresMerchant) CreateOrder(ctx context.Context, items []model.OrderItemRequest, customerID string) (map[string]any, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	orderID := uuid.New()
	orderItems := make([]map[string]any, 0, len(items))
	prices := make([]float64, len(items))
	total := 0.0

	for i, item := range items {
		if prices[i], err = m.unitPrice(ctx, tx, item); err != nil {
			return nil, err
		}

		line := map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"unit_price": prices[i],
		}
		if len(item.Variations) > 0 {
			line["variations"] = selectedToRaw(item.Variations)
		}
		orderItems = append(orderItems, line)
		total += prices[i] * float64(item.Quantity)
	}

	insertOrder := squirrel.
		Insert("orders").
		SetMap(map[string]any{
			"id":           orderID,
			"customer_id":  customerID,
			"total_amount": total,
			"status":       model.DefaultOrderStatus,
			"created_at":   time.Now(),
		}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := insertOrder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order insert: %w", err)
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		m.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to insert order")
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range items {
		var variationsJSON []byte
		if len(item.Variations) > 0 {
			if variationsJSON, err = json.Marshal(item.Variations); err != nil {
				return nil, fmt.Errorf("failed to encode variations: %w", err)
			}
		}

		insertItem := squirrel.
			Insert("order_items").
			SetMap(map[string]any{
				"id":         uuid.New(),
				"order_id":   orderID,
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
				"unit_price": prices[i],
				"variations": variationsJSON,
			}).
			PlaceholderFormat(squirrel.Dollar)

		var itemSQL string
		var itemArgs []any
		if itemSQL, itemArgs, err = insertItem.ToSql(); err != nil {
			return nil, fmt.Errorf("failed to build order item insert: %w", err)
		}
		if _, err = tx.Exec(ctx, itemSQL, itemArgs...); err != nil {
			m.logger.Error().Err(err).Str("product_id", item.ProductID).Msg("failed to insert order item")
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		m.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	m.logger.Info().
		Str("order_id", orderID.String()).
		Str("customer_id", customerID).
		Int("item_count", len(orderItems)).
		Msg("order created")

	return map[string]any{
		"order_id":     orderID.String(),
		"items":        orderItems,
		"total_amount": total,
		"status":       model.DefaultOrderStatus,
	}, nil
}

// unitPrice resolves a line's unit price as base price plus the modifiers
// of selected variations present in the catalogue.
func (m *postgresMerchant) unitPrice(ctx context.Context, tx pgx.Tx, item model.OrderItemRequest) (float64, error) {
	var price float64
	err := tx.QueryRow(ctx, `SELECT base_price FROM products WHERE id = $1`, item.ProductID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("product %s not in catalogue", item.ProductID)
		}
		return 0, fmt.Errorf("failed to query product %s: %w", item.ProductID, err)
	}

	for _, sel := range item.Variations {
		var modifier float64
		err := tx.QueryRow(ctx,
			`SELECT price_modifier FROM product_variations WHERE product_id = $1 AND type = $2 AND name = $3`,
			item.ProductID, sel.Type, sel.Name,
		).Scan(&modifier)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return 0, fmt.Errorf("failed to query variation for product %s: %w", item.ProductID, err)
		}
		price += modifier
	}

	return price, nil
}
