package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restro_erp_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// OrderRepository defines the interface for order-related database operations.
// Methods that participate in order+unit transactions take a SQLExecutor; a
// nil executor falls back to the repository's own connection.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderByID(executor SQLExecutor, orderID int64) (*models.Order, error)
	GetOrderItemsByOrderID(executor SQLExecutor, orderID int64) ([]models.OrderItem, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	GetActiveOrdersByTable(tableLabel string, statuses []string) ([]models.Order, error)
	UpdateOrderHeader(executor SQLExecutor, order *models.Order, expectedVersion int64) error
	UpdateOrderItem(executor SQLExecutor, item *models.OrderItem) error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, expectedVersion int64, updatedAt time.Time) error
	SetSentToKitchen(executor SQLExecutor, orderID int64) (int64, error)
	CompleteActiveByUnitLabel(executor SQLExecutor, tableLabel string) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) executor(executor SQLExecutor) SQLExecutor {
	if executor == nil {
		return r.db
	}
	return executor
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (customer_name, order_type, table_label, phone_number, delivery_address,
	             special_instructions, payment_method, subtotal, status, sent_to_kitchen,
	             version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}
	if order.Version == 0 {
		order.Version = 1
	}

	err := r.executor(executor).QueryRow(query,
		order.CustomerName, order.OrderType, order.TableLabel, order.PhoneNumber, order.DeliveryAddress,
		order.SpecialInstructions, order.PaymentMethod, order.Subtotal, order.Status, order.SentToKitchen,
		order.Version, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, position, name, quantity, unit_price, special_instructions, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := r.executor(executor).QueryRow(query,
		item.OrderID, item.Position, item.Name, item.Quantity, item.UnitPrice, item.SpecialInstructions,
		item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderByID(executor SQLExecutor, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT id, customer_name, order_type, table_label, phone_number, delivery_address,
	                 special_instructions, payment_method, subtotal, status, sent_to_kitchen,
	                 version, created_at, updated_at
	          FROM orders
	          WHERE id = $1`
	err := r.executor(executor).QueryRow(query, orderID).Scan(
		&order.ID, &order.CustomerName, &order.OrderType, &order.TableLabel, &order.PhoneNumber,
		&order.DeliveryAddress, &order.SpecialInstructions, &order.PaymentMethod, &order.Subtotal,
		&order.Status, &order.SentToKitchen, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(executor SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT id, order_id, position, name, quantity, unit_price, special_instructions, created_at
	          FROM order_items
	          WHERE order_id = $1
	          ORDER BY position, id`

	rows, err := r.executor(executor).Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.Position, &item.Name, &item.Quantity, &item.UnitPrice,
			&item.SpecialInstructions, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.customer_name, o.order_type, o.table_label, o.phone_number, o.delivery_address,
            o.special_instructions, o.payment_method, o.subtotal, o.status, o.sent_to_kitchen,
            o.version, o.created_at, o.updated_at,
            COUNT(*) OVER() as total_count
        FROM orders o
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.OrderType != nil && *filters.OrderType != "" {
		conditions = append(conditions, fmt.Sprintf("o.order_type = $%d", argCounter))
		args = append(args, *filters.OrderType)
		argCounter++
	}
	if filters.TableLabel != nil && *filters.TableLabel != "" {
		conditions = append(conditions, fmt.Sprintf("o.table_label = $%d", argCounter))
		args = append(args, *filters.TableLabel)
		argCounter++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("o.created_at >= $%d", argCounter))
		args = append(args, *filters.From)
		argCounter++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("o.created_at <= $%d", argCounter))
		args = append(args, *filters.To)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.CustomerName, &o.OrderType, &o.TableLabel, &o.PhoneNumber, &o.DeliveryAddress,
			&o.SpecialInstructions, &o.PaymentMethod, &o.Subtotal, &o.Status, &o.SentToKitchen,
			&o.Version, &o.CreatedAt, &o.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetActiveOrdersByTable(tableLabel string, statuses []string) ([]models.Order, error) {
	orders := []models.Order{}
	query := `SELECT id, customer_name, order_type, table_label, phone_number, delivery_address,
	                 special_instructions, payment_method, subtotal, status, sent_to_kitchen,
	                 version, created_at, updated_at
	          FROM orders
	          WHERE table_label = $1 AND order_type = $2 AND status = ANY($3)
	          ORDER BY created_at DESC`

	rows, err := r.db.Query(query, tableLabel, models.OrderTypeDineIn, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("%w: querying active orders for table %s: %v", ErrDatabaseError, tableLabel, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.CustomerName, &o.OrderType, &o.TableLabel, &o.PhoneNumber, &o.DeliveryAddress,
			&o.SpecialInstructions, &o.PaymentMethod, &o.Subtotal, &o.Status, &o.SentToKitchen,
			&o.Version, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning active order for table %s: %v", ErrDatabaseError, tableLabel, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating active order rows for table %s: %v", ErrDatabaseError, tableLabel, err)
	}
	return orders, nil
}

// UpdateOrderHeader rewrites the mutable header fields (customer name, special
// instructions, subtotal) guarded by the optimistic version check. The version
// is bumped on success; zero rows affected with a live order means a
// concurrent writer won.
func (r *orderRepository) UpdateOrderHeader(executor SQLExecutor, order *models.Order, expectedVersion int64) error {
	query := `UPDATE orders
	          SET customer_name = $1, special_instructions = $2, subtotal = $3,
	              version = version + 1, updated_at = $4
	          WHERE id = $5 AND version = $6`
	result, err := r.executor(executor).Exec(query,
		order.CustomerName, order.SpecialInstructions, order.Subtotal, time.Now(),
		order.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order header for ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order header update ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	if rowsAffected == 0 {
		return ErrVersionConflict
	}
	order.Version = expectedVersion + 1
	return nil
}

func (r *orderRepository) UpdateOrderItem(executor SQLExecutor, item *models.OrderItem) error {
	query := `UPDATE order_items
	          SET name = $1, quantity = $2, unit_price = $3, special_instructions = $4
	          WHERE id = $5 AND order_id = $6`
	result, err := r.executor(executor).Exec(query,
		item.Name, item.Quantity, item.UnitPrice, item.SpecialInstructions,
		item.ID, item.OrderID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order item update ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOrderStatus writes the new status guarded by the same optimistic
// version check as header writes. Zero rows affected means a concurrent
// writer moved the order first; the caller re-reads and re-validates the
// transition against the fresh status.
func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, expectedVersion int64, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, version = version + 1, updated_at = $2
	          WHERE id = $3 AND version = $4`
	result, err := r.executor(executor).Exec(query, newStatus, updatedAt, orderID, expectedVersion)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// SetSentToKitchen flips the one-way flag. The conditional write is the
// idempotency boundary: zero rows affected means the flag was already set.
func (r *orderRepository) SetSentToKitchen(executor SQLExecutor, orderID int64) (int64, error) {
	query := `UPDATE orders SET sent_to_kitchen = TRUE, updated_at = $1
	          WHERE id = $2 AND sent_to_kitchen = FALSE`
	result, err := r.executor(executor).Exec(query, time.Now(), orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: marking order %d sent to kitchen: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for send-to-kitchen on order %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

// CompleteActiveByUnitLabel bulk-completes all pending/in-progress dine-in
// orders for a table in one statement and returns how many were matched.
func (r *orderRepository) CompleteActiveByUnitLabel(executor SQLExecutor, tableLabel string) (int64, error) {
	query := `UPDATE orders
	          SET status = $1, version = version + 1, updated_at = $2
	          WHERE table_label = $3 AND order_type = $4 AND status = ANY($5)`
	result, err := r.executor(executor).Exec(query,
		models.OrderStatusCompleted, time.Now(), tableLabel, models.OrderTypeDineIn,
		pq.Array([]string{models.OrderStatusPending, models.OrderStatusInProgress}),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: completing active orders for table %s: %v", ErrDatabaseError, tableLabel, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for completing table %s: %v", ErrDatabaseError, tableLabel, err)
	}
	return rowsAffected, nil
}
