package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restro_erp_backend/internal/models"
)

// PosRepository defines the interface for POS transaction database operations.
type PosRepository interface {
	CreateTransaction(executor SQLExecutor, txn *models.PosTransaction) (int64, error)
	CreateTransactionItem(executor SQLExecutor, item *models.PosTransactionItem) (int64, error)
	GetTransactionByID(executor SQLExecutor, txnID int64) (*models.PosTransaction, error)
	GetTransactions() ([]models.PosTransaction, error)
	TransferCredit(executor SQLExecutor, txnID int64, target string, amount float64) (int64, error)
	SalesBetween(from, to time.Time) (*models.SalesSummary, error)
	TopItems(limit int) ([]models.ItemSales, error)
	PaymentTypeTotalsBetween(from, to time.Time) (*models.PaymentTypeTotals, error)
}

type posRepository struct {
	db *sql.DB
}

// NewPosRepository creates a new instance of PosRepository.
func NewPosRepository(db *sql.DB) PosRepository {
	return &posRepository{db: db}
}

func (r *posRepository) executor(executor SQLExecutor) SQLExecutor {
	if executor == nil {
		return r.db
	}
	return executor
}

func (r *posRepository) CreateTransaction(executor SQLExecutor, txn *models.PosTransaction) (int64, error) {
	query := `INSERT INTO pos_transactions
	            (total_amount, cash, credit, online, payment_method, order_type,
	             customer_name, customer_contact, kitchen_order_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	err := r.executor(executor).QueryRow(query,
		txn.TotalAmount, txn.Cash, txn.Credit, txn.Online, txn.PaymentMethod, txn.OrderType,
		txn.CustomerName, txn.CustomerContact, txn.KitchenOrderID, txn.CreatedAt,
	).Scan(&txn.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating POS transaction: %v", ErrDatabaseError, err)
	}
	return txn.ID, nil
}

func (r *posRepository) CreateTransactionItem(executor SQLExecutor, item *models.PosTransactionItem) (int64, error) {
	query := `INSERT INTO pos_transaction_items
	            (transaction_id, position, item_ref, name, unit_price, quantity)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := r.executor(executor).QueryRow(query,
		item.TransactionID, item.Position, item.ItemRef, item.Name, item.UnitPrice, item.Quantity,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating POS transaction item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *posRepository) GetTransactionByID(executor SQLExecutor, txnID int64) (*models.PosTransaction, error) {
	txn := &models.PosTransaction{}
	query := `SELECT id, total_amount, cash, credit, online, payment_method, order_type,
	                 customer_name, customer_contact, kitchen_order_id, created_at
	          FROM pos_transactions
	          WHERE id = $1`
	err := r.executor(executor).QueryRow(query, txnID).Scan(
		&txn.ID, &txn.TotalAmount, &txn.Cash, &txn.Credit, &txn.Online, &txn.PaymentMethod,
		&txn.OrderType, &txn.CustomerName, &txn.CustomerContact, &txn.KitchenOrderID, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting POS transaction by ID %d: %v", ErrDatabaseError, txnID, err)
	}

	items, err := r.getTransactionItems(executor, txnID)
	if err != nil {
		return nil, err
	}
	txn.Items = items
	return txn, nil
}

func (r *posRepository) getTransactionItems(executor SQLExecutor, txnID int64) ([]models.PosTransactionItem, error) {
	items := []models.PosTransactionItem{}
	query := `SELECT id, transaction_id, position, item_ref, name, unit_price, quantity
	          FROM pos_transaction_items
	          WHERE transaction_id = $1
	          ORDER BY position, id`
	rows, err := r.executor(executor).Query(query, txnID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying POS items for transaction %d: %v", ErrDatabaseError, txnID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.PosTransactionItem
		err := rows.Scan(&item.ID, &item.TransactionID, &item.Position, &item.ItemRef,
			&item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning POS item for transaction %d: %v", ErrDatabaseError, txnID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating POS item rows for transaction %d: %v", ErrDatabaseError, txnID, err)
	}
	return items, nil
}

func (r *posRepository) GetTransactions() ([]models.PosTransaction, error) {
	txns := []models.PosTransaction{}
	query := `SELECT id, total_amount, cash, credit, online, payment_method, order_type,
	                 customer_name, customer_contact, kitchen_order_id, created_at
	          FROM pos_transactions
	          ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying POS transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn models.PosTransaction
		err := rows.Scan(
			&txn.ID, &txn.TotalAmount, &txn.Cash, &txn.Credit, &txn.Online, &txn.PaymentMethod,
			&txn.OrderType, &txn.CustomerName, &txn.CustomerContact, &txn.KitchenOrderID, &txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning POS transaction: %v", ErrDatabaseError, err)
		}
		txns = append(txns, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating POS transaction rows: %v", ErrDatabaseError, err)
	}
	return txns, nil
}

// TransferCredit moves amount from the credit component into cash or online
// as one conditional update. The credit >= amount guard makes concurrent
// transfers safe: the second writer sees the already-decremented value. Zero
// rows affected means either the transaction is missing or credit was
// insufficient; the caller disambiguates with a follow-up read.
func (r *posRepository) TransferCredit(executor SQLExecutor, txnID int64, target string, amount float64) (int64, error) {
	var query string
	switch target {
	case models.PosPaymentCash:
		query = `UPDATE pos_transactions
		         SET credit = credit - $1, cash = cash + $1
		         WHERE id = $2 AND credit >= $1`
	case models.PosPaymentOnline:
		query = `UPDATE pos_transactions
		         SET credit = credit - $1, online = online + $1
		         WHERE id = $2 AND credit >= $1`
	default:
		return 0, fmt.Errorf("%w: unsupported transfer target %q", ErrDatabaseError, target)
	}

	result, err := r.executor(executor).Exec(query, amount, txnID)
	if err != nil {
		return 0, fmt.Errorf("%w: transferring credit on transaction %d: %v", ErrDatabaseError, txnID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for credit transfer on transaction %d: %v", ErrDatabaseError, txnID, err)
	}
	return rowsAffected, nil
}

func (r *posRepository) SalesBetween(from, to time.Time) (*models.SalesSummary, error) {
	summary := &models.SalesSummary{}
	query := `SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(cash), 0),
	                 COALESCE(SUM(online), 0), COALESCE(SUM(credit), 0), COUNT(*)
	          FROM pos_transactions
	          WHERE created_at >= $1 AND created_at < $2`
	err := r.db.QueryRow(query, from, to).Scan(
		&summary.TotalSales, &summary.TotalCash, &summary.TotalOnline, &summary.TotalCredit, &summary.Orders,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating sales between %s and %s: %v", ErrDatabaseError, from, to, err)
	}
	return summary, nil
}

func (r *posRepository) TopItems(limit int) ([]models.ItemSales, error) {
	items := []models.ItemSales{}
	query := `SELECT name, SUM(quantity), SUM(unit_price * quantity)
	          FROM pos_transaction_items
	          GROUP BY name
	          ORDER BY SUM(quantity) DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying top items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ItemSales
		if err := rows.Scan(&item.Name, &item.TotalQuantity, &item.TotalSales); err != nil {
			return nil, fmt.Errorf("%w: scanning item sales: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating item sales rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *posRepository) PaymentTypeTotalsBetween(from, to time.Time) (*models.PaymentTypeTotals, error) {
	totals := &models.PaymentTypeTotals{}
	query := `SELECT COALESCE(SUM(cash), 0), COALESCE(SUM(credit), 0), COALESCE(SUM(online), 0)
	          FROM pos_transactions
	          WHERE created_at >= $1 AND created_at < $2`
	err := r.db.QueryRow(query, from, to).Scan(&totals.TotalCash, &totals.TotalCredit, &totals.TotalOnline)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating payment totals between %s and %s: %v", ErrDatabaseError, from, to, err)
	}
	return totals, nil
}
