package services

import (
	"time"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/repositories"
)

// passTxRunner satisfies repositories.TxRunner without a database. The
// callback runs with a nil executor, which the fakes ignore.
type passTxRunner struct{}

func (passTxRunner) RunInTx(fn func(tx repositories.SQLExecutor) error) error {
	return fn(nil)
}

// countingTxRunner records how many transactions ran.
type countingTxRunner struct {
	calls int
}

func (c *countingTxRunner) RunInTx(fn func(tx repositories.SQLExecutor) error) error {
	c.calls++
	return fn(nil)
}

// --- fake order repository ---

type fakeOrderRepo struct {
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (f *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.nextID++
	order.ID = f.nextID
	if order.Version == 0 {
		order.Version = 1
	}
	stored := *order
	stored.Items = nil
	f.orders[order.ID] = &stored
	return order.ID, nil
}

func (f *fakeOrderRepo) CreateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	f.nextID++
	item.ID = f.nextID
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	return item.ID, nil
}

func (f *fakeOrderRepo) GetOrderByID(_ repositories.SQLExecutor, orderID int64) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetOrderItemsByOrderID(_ repositories.SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	var out []models.Order
	for _, order := range f.orders {
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		if filters.OrderType != nil && order.OrderType != *filters.OrderType {
			continue
		}
		out = append(out, *order)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) GetActiveOrdersByTable(tableLabel string, statuses []string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.OrderType != models.OrderTypeDineIn || order.TableLabel == nil || *order.TableLabel != tableLabel {
			continue
		}
		for _, st := range statuses {
			if order.Status == st {
				out = append(out, *order)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateOrderHeader(_ repositories.SQLExecutor, order *models.Order, expectedVersion int64) error {
	stored, ok := f.orders[order.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	stored.CustomerName = order.CustomerName
	stored.SpecialInstructions = order.SpecialInstructions
	stored.Subtotal = order.Subtotal
	stored.Version++
	order.Version = stored.Version
	return nil
}

func (f *fakeOrderRepo) UpdateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) error {
	lines := f.items[item.OrderID]
	for i := range lines {
		if lines[i].ID == item.ID {
			lines[i] = *item
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, orderID int64, newStatus string, expectedVersion int64, _ time.Time) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrVersionConflict
	}
	if order.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	order.Status = newStatus
	order.Version++
	return nil
}

func (f *fakeOrderRepo) SetSentToKitchen(_ repositories.SQLExecutor, orderID int64) (int64, error) {
	order, ok := f.orders[orderID]
	if !ok || order.SentToKitchen {
		return 0, nil
	}
	order.SentToKitchen = true
	return 1, nil
}

func (f *fakeOrderRepo) CompleteActiveByUnitLabel(_ repositories.SQLExecutor, tableLabel string) (int64, error) {
	var matched int64
	for _, order := range f.orders {
		if order.OrderType != models.OrderTypeDineIn || order.TableLabel == nil || *order.TableLabel != tableLabel {
			continue
		}
		if models.IsActiveOrderStatus(order.Status) {
			order.Status = models.OrderStatusCompleted
			order.Version++
			matched++
		}
	}
	return matched, nil
}

// --- fake unit repository ---

type fakeUnitRepo struct {
	units  map[string]*models.OccupancyUnit
	nextID int64
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[string]*models.OccupancyUnit)}
}

func unitKey(kind models.UnitKind, label string) string {
	return string(kind) + "/" + label
}

func (f *fakeUnitRepo) addUnit(kind models.UnitKind, label string) *models.OccupancyUnit {
	f.nextID++
	unit := &models.OccupancyUnit{ID: f.nextID, Kind: kind, Label: label}
	f.units[unitKey(kind, label)] = unit
	return unit
}

func (f *fakeUnitRepo) CreateUnit(_ repositories.SQLExecutor, unit *models.OccupancyUnit) (int64, error) {
	if _, exists := f.units[unitKey(unit.Kind, unit.Label)]; exists {
		return 0, repositories.ErrDuplicateKey
	}
	f.nextID++
	unit.ID = f.nextID
	stored := *unit
	f.units[unitKey(unit.Kind, unit.Label)] = &stored
	return unit.ID, nil
}

func (f *fakeUnitRepo) GetUnitByLabel(_ repositories.SQLExecutor, kind models.UnitKind, label string) (*models.OccupancyUnit, error) {
	unit, ok := f.units[unitKey(kind, label)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *unit
	return &copied, nil
}

func (f *fakeUnitRepo) GetUnitByID(_ repositories.SQLExecutor, unitID int64) (*models.OccupancyUnit, error) {
	for _, unit := range f.units {
		if unit.ID == unitID {
			copied := *unit
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUnitRepo) GetUnits(kind models.UnitKind) ([]models.OccupancyUnit, error) {
	var out []models.OccupancyUnit
	for _, unit := range f.units {
		if unit.Kind == kind {
			out = append(out, *unit)
		}
	}
	return out, nil
}

func (f *fakeUnitRepo) SetOccupancy(_ repositories.SQLExecutor, kind models.UnitKind, label string, occupied bool, activeOrderID *int64) error {
	unit, ok := f.units[unitKey(kind, label)]
	if !ok {
		return repositories.ErrNotFound
	}
	unit.Occupied = occupied
	unit.ActiveOrderID = activeOrderID
	return nil
}

func (f *fakeUnitRepo) SetCheckDates(_ repositories.SQLExecutor, kind models.UnitKind, label string, checkIn, checkOut *time.Time) error {
	unit, ok := f.units[unitKey(kind, label)]
	if !ok {
		return repositories.ErrNotFound
	}
	if checkIn != nil {
		unit.CheckInDate = checkIn
	}
	if checkOut != nil {
		unit.CheckOutDate = checkOut
	}
	return nil
}

func (f *fakeUnitRepo) CountByOccupancy(kind models.UnitKind) (*models.OccupancyCounts, error) {
	counts := &models.OccupancyCounts{}
	for _, unit := range f.units {
		if unit.Kind != kind {
			continue
		}
		counts.Total++
		if unit.Occupied {
			counts.Occupied++
		} else {
			counts.Free++
		}
	}
	return counts, nil
}

func (f *fakeUnitRepo) DeleteUnit(_ repositories.SQLExecutor, unitID int64) error {
	for key, unit := range f.units {
		if unit.ID == unitID {
			delete(f.units, key)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// --- fake POS repository ---

type fakePosRepo struct {
	txns   map[int64]*models.PosTransaction
	items  map[int64][]models.PosTransactionItem
	nextID int64
}

func newFakePosRepo() *fakePosRepo {
	return &fakePosRepo{
		txns:  make(map[int64]*models.PosTransaction),
		items: make(map[int64][]models.PosTransactionItem),
	}
}

func (f *fakePosRepo) CreateTransaction(_ repositories.SQLExecutor, txn *models.PosTransaction) (int64, error) {
	f.nextID++
	txn.ID = f.nextID
	stored := *txn
	stored.Items = nil
	f.txns[txn.ID] = &stored
	return txn.ID, nil
}

func (f *fakePosRepo) CreateTransactionItem(_ repositories.SQLExecutor, item *models.PosTransactionItem) (int64, error) {
	f.nextID++
	item.ID = f.nextID
	f.items[item.TransactionID] = append(f.items[item.TransactionID], *item)
	return item.ID, nil
}

func (f *fakePosRepo) GetTransactionByID(_ repositories.SQLExecutor, txnID int64) (*models.PosTransaction, error) {
	txn, ok := f.txns[txnID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *txn
	copied.Items = append([]models.PosTransactionItem(nil), f.items[txnID]...)
	return &copied, nil
}

func (f *fakePosRepo) GetTransactions() ([]models.PosTransaction, error) {
	var out []models.PosTransaction
	for _, txn := range f.txns {
		out = append(out, *txn)
	}
	return out, nil
}

func (f *fakePosRepo) TransferCredit(_ repositories.SQLExecutor, txnID int64, target string, amount float64) (int64, error) {
	txn, ok := f.txns[txnID]
	if !ok || txn.Credit < amount {
		return 0, nil
	}
	txn.Credit -= amount
	switch target {
	case models.PosPaymentCash:
		txn.Cash += amount
	case models.PosPaymentOnline:
		txn.Online += amount
	}
	return 1, nil
}

func (f *fakePosRepo) SalesBetween(_, _ time.Time) (*models.SalesSummary, error) {
	summary := &models.SalesSummary{}
	for _, txn := range f.txns {
		summary.Orders++
		summary.TotalSales += txn.TotalAmount
		summary.TotalCash += txn.Cash
		summary.TotalCredit += txn.Credit
		summary.TotalOnline += txn.Online
	}
	return summary, nil
}

func (f *fakePosRepo) TopItems(limit int) ([]models.ItemSales, error) {
	byName := make(map[string]*models.ItemSales)
	for _, lines := range f.items {
		for _, line := range lines {
			entry, ok := byName[line.Name]
			if !ok {
				entry = &models.ItemSales{Name: line.Name}
				byName[line.Name] = entry
			}
			entry.TotalQuantity += line.Quantity
			entry.TotalSales += line.UnitPrice * float64(line.Quantity)
		}
	}
	var out []models.ItemSales
	for _, entry := range byName {
		out = append(out, *entry)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePosRepo) PaymentTypeTotalsBetween(_, _ time.Time) (*models.PaymentTypeTotals, error) {
	totals := &models.PaymentTypeTotals{}
	for _, txn := range f.txns {
		totals.TotalCash += txn.Cash
		totals.TotalCredit += txn.Credit
		totals.TotalOnline += txn.Online
	}
	return totals, nil
}
