package services

import (
	"errors"
	"fmt"
	"time"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/notifier"
	"restro_erp_backend/internal/repositories"
	"restro_erp_backend/pkg/utils"
)

// Custom Errors surfaced by the POS service.
var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrPosValidation         = errors.New("POS transaction validation failed")
	ErrInvalidTransferTarget = errors.New("invalid transfer target")
	ErrInsufficientCredit    = errors.New("insufficient credit to transfer")
	ErrNoActiveTableOrder    = errors.New("no active order found for this table")
)

// --- POS DTOs ---

// PosCartItemRequest is one cart line on a POS bill.
type PosCartItemRequest struct {
	ItemRef  string  `json:"id"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
}

// CreateTransactionRequest creates a POS bill and spawns the matching kitchen
// order. TableLabel empty means takeaway.
type CreateTransactionRequest struct {
	Cart           []PosCartItemRequest `json:"cart" binding:"required,dive"`
	Cash           float64              `json:"cash"`
	Online         float64              `json:"online"`
	PaymentMethod  string               `json:"payment_method"`
	CustomerName   string               `json:"customer_name"`
	CustomerNumber string               `json:"customer_number"`
	TableLabel     string               `json:"table_number"`
}

// TransferCreditRequest moves value out of the credit component.
type TransferCreditRequest struct {
	TransferTo string  `json:"transfer_to"`
	Amount     float64 `json:"amount" binding:"required"`
}

// AddTableItemsRequest appends cart lines to the active order on a table via
// the POS panel.
type AddTableItemsRequest struct {
	Cart []PosCartItemRequest `json:"cart" binding:"required,dive"`
}

// --- PosService Interface ---

type PosService interface {
	CreateTransaction(req CreateTransactionRequest) (*models.PosTransaction, error)
	GetTransactions() ([]models.PosTransaction, error)
	TransferCredit(txnID int64, req TransferCreditRequest) (*models.PosTransaction, error)
	AddItemsToTableOrder(tableLabel string, req AddTableItemsRequest) (*models.Order, error)
	SalesByRange(rangeName string) (*models.SalesSummary, error)
	TopItems(limit int) ([]models.ItemSales, error)
	TodayPaymentTypeTotals() (*models.PaymentTypeTotals, error)
}

// --- posService Implementation ---

type posService struct {
	posRepo      repositories.PosRepository
	orderRepo    repositories.OrderRepository
	unitRepo     repositories.UnitRepository
	orderService OrderService
	txRunner     repositories.TxRunner
	events       *notifier.Publisher
}

// NewPosService creates a new instance of PosService. The events publisher
// may be nil; event emission is then skipped.
func NewPosService(
	pr repositories.PosRepository,
	or repositories.OrderRepository,
	ur repositories.UnitRepository,
	os OrderService,
	txr repositories.TxRunner,
	events *notifier.Publisher,
) PosService {
	return &posService{
		posRepo:      pr,
		orderRepo:    or,
		unitRepo:     ur,
		orderService: os,
		txRunner:     txr,
		events:       events,
	}
}

func cartToOrderItems(cart []PosCartItemRequest) []OrderItemRequest {
	items := make([]OrderItemRequest, 0, len(cart))
	for _, line := range cart {
		items = append(items, OrderItemRequest{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return items
}

func cartTotal(cart []PosCartItemRequest) float64 {
	var sum float64
	for _, line := range cart {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}

func validateCart(cart []PosCartItemRequest) error {
	if len(cart) == 0 {
		return fmt.Errorf("%w: cart items are required", ErrPosValidation)
	}
	for _, line := range cart {
		if line.Name == "" {
			return fmt.Errorf("%w: item name is required", ErrPosValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: item %q: quantity must be a positive number", ErrPosValidation, line.Name)
		}
		if line.Price <= 0 {
			return fmt.Errorf("%w: item %q: price must be a positive number", ErrPosValidation, line.Name)
		}
	}
	return nil
}

// CreateTransaction records a POS bill and spawns the kitchen order for it.
// The total is computed from the cart and the payment components are derived
// so that cash + credit + online always reconciles against the total. The
// kitchen order starts in-progress with the ticket already sent.
func (s *posService) CreateTransaction(req CreateTransactionRequest) (*models.PosTransaction, error) {
	if err := validateCart(req.Cart); err != nil {
		return nil, err
	}
	if req.Cash < 0 || req.Online < 0 {
		return nil, fmt.Errorf("%w: payment amounts cannot be negative", ErrPosValidation)
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PosPaymentCash
	}
	if !models.IsValidPosPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment method %q", ErrPosValidation, req.PaymentMethod)
	}
	customerName := req.CustomerName
	if customerName == "" {
		customerName = "Guest"
	}

	total := cartTotal(req.Cart)
	credit, change := ReconcilePayments(total, req.Cash, req.Online)

	orderReq := CreateOrderRequest{
		CustomerName:  customerName,
		Items:         cartToOrderItems(req.Cart),
		PaymentMethod: models.PaymentMethodCounter,
		Status:        models.OrderStatusInProgress,
		SentToKitchen: true,
	}
	if req.TableLabel != "" {
		orderReq.OrderType = models.OrderTypeDineIn
		orderReq.TableLabel = req.TableLabel
	} else {
		// Takeaway rides on the delivery order type with a stand-in address.
		orderReq.OrderType = models.OrderTypeDelivery
		orderReq.DeliveryAddress = "Takeaway"
		orderReq.PhoneNumber = req.CustomerNumber
	}

	txn := &models.PosTransaction{
		TotalAmount:     total,
		Cash:            req.Cash,
		Credit:          credit,
		Online:          req.Online,
		Change:          change,
		PaymentMethod:   req.PaymentMethod,
		OrderType:       orderReq.OrderType,
		CustomerName:    customerName,
		CustomerContact: utils.NewNullString(req.CustomerNumber),
	}
	for i, line := range req.Cart {
		txn.Items = append(txn.Items, models.PosTransactionItem{
			Position:  i,
			ItemRef:   utils.NewNullString(line.ItemRef),
			Name:      line.Name,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
		})
	}

	// The kitchen order and the bill commit together; a bill never exists
	// without its order and vice versa.
	var kitchenOrder *models.Order
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		var err error
		kitchenOrder, err = s.orderService.CreateOrderInTx(tx, orderReq)
		if err != nil {
			return fmt.Errorf("failed to create kitchen order for bill: %w", err)
		}
		txn.KitchenOrderID = &kitchenOrder.ID

		txnID, err := s.posRepo.CreateTransaction(tx, txn)
		if err != nil {
			return fmt.Errorf("failed to create POS transaction: %w", err)
		}
		for i := range txn.Items {
			txn.Items[i].TransactionID = txnID
			if _, err := s.posRepo.CreateTransactionItem(tx, &txn.Items[i]); err != nil {
				return fmt.Errorf("failed to create POS transaction item %q: %w", txn.Items[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.PublishOrderEvent(orderCreatedEvent(kitchenOrder))
	return txn, nil
}

func (s *posService) GetTransactions() ([]models.PosTransaction, error) {
	txns, err := s.posRepo.GetTransactions()
	if err != nil {
		return nil, fmt.Errorf("failed to get POS transactions: %w", err)
	}
	return txns, nil
}

// TransferCredit moves amount from the transaction's credit component into
// cash or online without changing the total. The repository applies it as one
// conditional update, so concurrent transfers cannot both spend the same
// credit.
func (s *posService) TransferCredit(txnID int64, req TransferCreditRequest) (*models.PosTransaction, error) {
	if req.TransferTo == "" {
		req.TransferTo = models.PosPaymentCash
	}
	if req.TransferTo != models.PosPaymentCash && req.TransferTo != models.PosPaymentOnline {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransferTarget, req.TransferTo)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrPosValidation)
	}

	rows, err := s.posRepo.TransferCredit(nil, txnID, req.TransferTo, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to transfer credit on transaction %d: %w", txnID, err)
	}
	if rows == 0 {
		// Either the transaction is missing or its credit was too low;
		// re-read to tell the two apart.
		if _, err := s.posRepo.GetTransactionByID(nil, txnID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTransactionNotFound
			}
			return nil, fmt.Errorf("failed to fetch transaction %d: %w", txnID, err)
		}
		return nil, ErrInsufficientCredit
	}

	txn, err := s.posRepo.GetTransactionByID(nil, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %d after transfer: %w", txnID, err)
	}
	return txn, nil
}

// AddItemsToTableOrder appends cart lines to the active order bound to a
// table, for the POS panel's "add to existing order" action.
func (s *posService) AddItemsToTableOrder(tableLabel string, req AddTableItemsRequest) (*models.Order, error) {
	if err := validateCart(req.Cart); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.GetUnitByLabel(nil, models.UnitKindTable, tableLabel)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table %s", ErrNoActiveTableOrder, tableLabel)
		}
		return nil, fmt.Errorf("failed to fetch table %s: %w", tableLabel, err)
	}
	if !unit.Occupied || unit.ActiveOrderID == nil {
		return nil, fmt.Errorf("%w: table %s", ErrNoActiveTableOrder, tableLabel)
	}

	return s.orderService.AddItems(*unit.ActiveOrderID, AddItemsRequest{
		NewItems:   cartToOrderItems(req.Cart),
		TableLabel: tableLabel,
	})
}

// SalesByRange aggregates POS sales inside the named calendar window.
func (s *posService) SalesByRange(rangeName string) (*models.SalesSummary, error) {
	from, to, err := rangeWindow(rangeName, time.Now())
	if err != nil {
		return nil, err
	}
	summary, err := s.posRepo.SalesBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales for range %q: %w", rangeName, err)
	}
	return summary, nil
}

// rangeWindow resolves a named range into a [from, to) window.
func rangeWindow(rangeName string, now time.Time) (time.Time, time.Time, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch rangeName {
	case "", "today":
		return startOfDay, startOfDay.AddDate(0, 0, 1), nil
	case "week":
		start := startOfDay.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), nil
	case "year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid time range %q", ErrPosValidation, rangeName)
	}
}

func (s *posService) TopItems(limit int) ([]models.ItemSales, error) {
	items, err := s.posRepo.TopItems(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top items: %w", err)
	}
	return items, nil
}

func (s *posService) TodayPaymentTypeTotals() (*models.PaymentTypeTotals, error) {
	from, to, err := rangeWindow("today", time.Now())
	if err != nil {
		return nil, err
	}
	totals, err := s.posRepo.PaymentTypeTotalsBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment type totals: %w", err)
	}
	return totals, nil
}
