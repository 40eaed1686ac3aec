// internal/adapters/memstore/store.go
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ammerola/stockledger/internal/core/domain"
	"github.com/ammerola/stockledger/internal/core/ports"
	"github.com/google/uuid"
)

// Store keeps the catalog and ledger in process memory.
// Units of work are optimistic: writes are staged and validated against the
// item version when they commit.
type Store struct {
	mu           sync.RWMutex
	items        map[uuid.UUID]domain.Item
	skus         map[string]uuid.UUID
	warehouses   map[uuid.UUID]domain.Warehouse
	suppliers    map[uuid.UUID]domain.Supplier
	transactions map[uuid.UUID]domain.Transaction
	byItem       map[uuid.UUID][]uuid.UUID
	seq          int64
	logger       *slog.Logger
}

var (
	_ ports.UnitOfWork    = (*Store)(nil)
	_ ports.CatalogReader = (*Store)(nil)
	_ ports.Resetter      = (*Store)(nil)
)

// New creates an empty store
func New(logger *slog.Logger) *Store {
	s := &Store{logger: logger.With(slog.String("repository", "memstore"))}
	s.init()
	return s
}

func (s *Store) init() {
	s.items = make(map[uuid.UUID]domain.Item)
	s.skus = make(map[string]uuid.UUID)
	s.warehouses = make(map[uuid.UUID]domain.Warehouse)
	s.suppliers = make(map[uuid.UUID]domain.Supplier)
	s.transactions = make(map[uuid.UUID]domain.Transaction)
	s.byItem = make(map[uuid.UUID][]uuid.UUID)
}

// Items returns the item repository view
func (s *Store) Items() ports.ItemRepository { return &itemRepo{s} }

// Warehouses returns the warehouse repository view
func (s *Store) Warehouses() ports.WarehouseRepository { return &warehouseRepo{s} }

// Suppliers returns the supplier repository view
func (s *Store) Suppliers() ports.SupplierRepository { return &supplierRepo{s} }

// Ledger returns the ledger repository view
func (s *Store) Ledger() ports.LedgerRepository { return &ledgerRepo{s} }

func skuKey(sku string) string { return strings.ToUpper(strings.TrimSpace(sku)) }

func cloneItem(i domain.Item) *domain.Item {
	c := i
	c.CustomerID = cloneUUID(i.CustomerID)
	c.WarehouseID = cloneUUID(i.WarehouseID)
	c.SupplierID = cloneUUID(i.SupplierID)
	return &c
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CatalogReader

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (s *Store) GetItemBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.skus[skuKey(sku)]
	if !ok {
		return nil, nil
	}
	return cloneItem(s.items[id]), nil
}

func (s *Store) GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *Store) GetDefaultWarehouse(ctx context.Context) (*domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.warehouses {
		if w.IsDefault {
			return &w, nil
		}
	}
	return nil, nil
}

func (s *Store) ItemExists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok, nil
}

func (s *Store) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.warehouses[id]
	return ok, nil
}

// ResetAll removes every row
func (s *Store) ResetAll(ctx context.Context) (ports.ResetCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := ports.ResetCounts{
		Transactions: int64(len(s.transactions)),
		Items:        int64(len(s.items)),
		Warehouses:   int64(len(s.warehouses)),
		Suppliers:    int64(len(s.suppliers)),
	}
	s.init()
	s.seq = 0
	s.logger.WarnContext(ctx, "store reset",
		slog.Int64("transactions", counts.Transactions),
		slog.Int64("items", counts.Items))
	return counts, nil
}

// WithItemTransaction runs fn against a snapshot of the item and commits its
// staged writes if no other unit of work committed against the item meanwhile.
func (s *Store) WithItemTransaction(ctx context.Context, itemID uuid.UUID, fn func(ctx context.Context, tx ports.ItemTx) error) error {
	s.mu.RLock()
	item, ok := s.items[itemID]
	s.mu.RUnlock()
	if !ok {
		return domain.NewNotFound("item", itemID)
	}

	tx := &itemTx{
		store:       s,
		item:        cloneItem(item),
		baseVersion: item.Version,
		updates:     make(map[uuid.UUID]domain.Transaction),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(ctx, tx)
}

func (s *Store) commit(ctx context.Context, tx *itemTx) error {
	if !tx.dirty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[tx.item.ID]
	if !ok {
		return domain.NewNotFound("item", tx.item.ID)
	}
	if current.Version != tx.baseVersion {
		return domain.ErrConcurrencyConflict
	}

	for _, t := range tx.inserts {
		s.seq++
		t.TransactionNumber = s.seq
		s.transactions[t.ID] = *t
		s.byItem[t.ItemID] = append(s.byItem[t.ItemID], t.ID)
	}
	for id, t := range tx.updates {
		if existing, exists := s.transactions[id]; exists {
			// links are attached outside units of work
			t.FinanceTransactionID = existing.FinanceTransactionID
			t.LinkedDeliveryID = existing.LinkedDeliveryID
			s.transactions[id] = t
		}
	}
	if tx.stockSaved {
		current.Stock.Quantity = tx.item.Stock.Quantity
		current.Stock.Reserved = tx.item.Stock.Reserved
		current.WarehouseID = cloneUUID(tx.item.WarehouseID)
	}
	current.Version++
	current.UpdatedAt = time.Now().UTC()
	s.items[current.ID] = current
	tx.item.Version = current.Version
	return nil
}

// itemTx stages writes for one item until commit
type itemTx struct {
	store       *Store
	item        *domain.Item
	baseVersion int64
	inserts     []*domain.Transaction
	updates     map[uuid.UUID]domain.Transaction
	stockSaved  bool
}

func (t *itemTx) dirty() bool {
	return t.stockSaved || len(t.inserts) > 0 || len(t.updates) > 0
}

func (t *itemTx) Item() *domain.Item { return t.item }

func (t *itemTx) SaveItemStock(ctx context.Context, item *domain.Item) error {
	if item.ID != t.item.ID {
		return domain.InvalidArgument("unit of work is scoped to item %s", t.item.ID)
	}
	t.item.Stock.Quantity = item.Stock.Quantity
	t.item.Stock.Reserved = item.Stock.Reserved
	t.item.WarehouseID = cloneUUID(item.WarehouseID)
	t.stockSaved = true
	return nil
}

func (t *itemTx) InsertTransaction(ctx context.Context, entry *domain.Transaction) error {
	if entry.ItemID != t.item.ID {
		return domain.InvalidArgument("unit of work is scoped to item %s", t.item.ID)
	}
	t.inserts = append(t.inserts, entry)
	return nil
}

func (t *itemTx) lookup(id uuid.UUID) (domain.Transaction, bool) {
	if e, ok := t.updates[id]; ok {
		return e, true
	}
	for _, e := range t.inserts {
		if e.ID == id {
			return *e, true
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	e, ok := t.store.transactions[id]
	return e, ok
}

func (t *itemTx) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	e, ok := t.lookup(id)
	if !ok || e.ItemID != t.item.ID {
		return nil, nil
	}
	return &e, nil
}

func (t *itemTx) ListItemTransactions(ctx context.Context) ([]domain.Transaction, error) {
	t.store.mu.RLock()
	ids := t.store.byItem[t.item.ID]
	out := make([]domain.Transaction, 0, len(ids)+len(t.inserts))
	for _, id := range ids {
		out = append(out, t.store.transactions[id])
	}
	t.store.mu.RUnlock()

	for i := range out {
		if e, ok := t.updates[out[i].ID]; ok {
			out[i] = e
		}
	}
	for _, e := range t.inserts {
		c := *e
		if u, ok := t.updates[c.ID]; ok {
			c = u
		}
		out = append(out, c)
	}
	return out, nil
}

func (t *itemTx) MarkCancelled(ctx context.Context, id uuid.UUID, actor string, at time.Time) error {
	e, ok := t.lookup(id)
	if !ok || e.ItemID != t.item.ID {
		return domain.NewNotFound("transaction", id)
	}
	if err := e.Cancel(actor, at); err != nil {
		return err
	}
	t.stage(e)
	return nil
}

func (t *itemTx) UpdateTransactionQuantities(ctx context.Context, entries []domain.Transaction) error {
	for _, e := range entries {
		stored, ok := t.lookup(e.ID)
		if !ok || stored.ItemID != t.item.ID {
			return domain.NewNotFound("transaction", e.ID)
		}
		stored.Quantity = e.Quantity
		stored.PreviousStock = e.PreviousStock
		stored.NewStock = e.NewStock
		stored.TotalValue = e.TotalValue
		stored.CorrectedAt = e.CorrectedAt
		stored.CorrectedBy = e.CorrectedBy
		t.stage(stored)
	}
	return nil
}

// stage records an updated copy; staged inserts are rewritten in place
func (t *itemTx) stage(e domain.Transaction) {
	for _, ins := range t.inserts {
		if ins.ID == e.ID {
			*ins = e
			return
		}
	}
	t.updates[e.ID] = e
}

func (t *itemTx) GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	return t.store.GetWarehouse(ctx, id)
}

func (t *itemTx) GetDefaultWarehouse(ctx context.Context) (*domain.Warehouse, error) {
	return t.store.GetDefaultWarehouse(ctx)
}

// itemRepo implements ports.ItemRepository
type itemRepo struct{ s *Store }

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := skuKey(item.SKU)
	if _, exists := r.s.skus[key]; exists {
		return domain.InvalidArgument("sku %s already exists", item.SKU)
	}
	if _, exists := r.s.items[item.ID]; exists {
		return domain.InvalidArgument("item %s already exists", item.ID)
	}
	item.Version = 1
	r.s.items[item.ID] = *cloneItem(*item)
	r.s.skus[key] = item.ID
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return r.s.GetItem(ctx, id)
}

func (r *itemRepo) GetBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	return r.s.GetItemBySKU(ctx, sku)
}

func (r *itemRepo) List(ctx context.Context, filter ports.ItemFilter) ([]domain.Item, int64, error) {
	r.s.mu.RLock()
	var matched []domain.Item
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, item := range r.s.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.WarehouseID != nil && !sameUUID(item.WarehouseID, filter.WarehouseID) {
			continue
		}
		if filter.SupplierID != nil && !sameUUID(item.SupplierID, filter.SupplierID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.SKU), search) {
			continue
		}
		matched = append(matched, *cloneItem(item))
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].SKU < matched[j].SKU })
	return paginate(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *itemRepo) UpdateDetails(ctx context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[item.ID]
	if !ok {
		return domain.NewNotFound("item", item.ID)
	}
	newKey := skuKey(item.SKU)
	if oldKey := skuKey(stored.SKU); newKey != oldKey {
		if _, taken := r.s.skus[newKey]; taken {
			return domain.InvalidArgument("sku %s already exists", item.SKU)
		}
		delete(r.s.skus, oldKey)
		r.s.skus[newKey] = item.ID
	}
	updated := *cloneItem(*item)
	updated.Stock.Quantity = stored.Stock.Quantity
	updated.WarehouseID = cloneUUID(stored.WarehouseID)
	updated.Version = stored.Version
	updated.CreatedAt = stored.CreatedAt
	r.s.items[item.ID] = updated
	return nil
}

func (r *itemRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[id]
	if !ok {
		return domain.NewNotFound("item", id)
	}
	stored.Status = status
	stored.UpdatedAt = time.Now().UTC()
	r.s.items[id] = stored
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.items[id]
	if !ok {
		return domain.NewNotFound("item", id)
	}
	if entries := r.s.byItem[id]; len(entries) > 0 {
		if !cascade {
			return fmt.Errorf("%w: item %s has %d ledger entries", domain.ErrReferentialIntegrity, id, len(entries))
		}
		for _, tid := range entries {
			delete(r.s.transactions, tid)
		}
		delete(r.s.byItem, id)
	}
	delete(r.s.skus, skuKey(stored.SKU))
	delete(r.s.items, id)
	return nil
}

func (r *itemRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.ItemExists(ctx, id)
}

// warehouseRepo implements ports.WarehouseRepository
type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(ctx context.Context, w *domain.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.warehouses {
		if existing.Code == w.Code {
			return domain.InvalidArgument("warehouse code %s already exists", w.Code)
		}
	}
	if w.IsDefault {
		r.clearDefault()
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) clearDefault() {
	for id, existing := range r.s.warehouses {
		if existing.IsDefault {
			existing.IsDefault = false
			r.s.warehouses[id] = existing
		}
	}
}

func (r *warehouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	return r.s.GetWarehouse(ctx, id)
}

func (r *warehouseRepo) GetByCode(ctx context.Context, code string) (*domain.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, w := range r.s.warehouses {
		if w.Code == code {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *warehouseRepo) GetDefault(ctx context.Context) (*domain.Warehouse, error) {
	return r.s.GetDefaultWarehouse(ctx)
}

func (r *warehouseRepo) List(ctx context.Context, activeOnly bool) ([]domain.Warehouse, error) {
	r.s.mu.RLock()
	out := make([]domain.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		if activeOnly && !w.IsActive {
			continue
		}
		out = append(out, w)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *warehouseRepo) Update(ctx context.Context, w *domain.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.warehouses[w.ID]
	if !ok {
		return domain.NewNotFound("warehouse", w.ID)
	}
	for id, existing := range r.s.warehouses {
		if id != w.ID && existing.Code == w.Code {
			return domain.InvalidArgument("warehouse code %s already exists", w.Code)
		}
	}
	updated := *w
	updated.IsDefault = stored.IsDefault
	updated.CreatedAt = stored.CreatedAt
	r.s.warehouses[w.ID] = updated
	return nil
}

func (r *warehouseRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.warehouses[id]
	if !ok {
		return domain.NewNotFound("warehouse", id)
	}
	r.clearDefault()
	target.IsDefault = true
	target.UpdatedAt = time.Now().UTC()
	r.s.warehouses[id] = target
	return nil
}

func (r *warehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[id]; !ok {
		return domain.NewNotFound("warehouse", id)
	}
	for _, item := range r.s.items {
		if item.WarehouseID != nil && *item.WarehouseID == id {
			return fmt.Errorf("%w: warehouse %s holds items", domain.ErrReferentialIntegrity, id)
		}
	}
	for _, t := range r.s.transactions {
		if t.WarehouseID != nil && *t.WarehouseID == id {
			return fmt.Errorf("%w: warehouse %s has ledger entries", domain.ErrReferentialIntegrity, id)
		}
	}
	delete(r.s.warehouses, id)
	return nil
}

func (r *warehouseRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.WarehouseExists(ctx, id)
}

// supplierRepo implements ports.SupplierRepository
type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(ctx context.Context, sup *domain.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.suppliers {
		if existing.Code == sup.Code {
			return domain.InvalidArgument("supplier code %s already exists", sup.Code)
		}
	}
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sup, nil
}

func (r *supplierRepo) List(ctx context.Context, activeOnly bool) ([]domain.Supplier, error) {
	r.s.mu.RLock()
	out := make([]domain.Supplier, 0, len(r.s.suppliers))
	for _, sup := range r.s.suppliers {
		if activeOnly && !sup.IsActive {
			continue
		}
		out = append(out, sup)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *supplierRepo) Update(ctx context.Context, sup *domain.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.suppliers[sup.ID]
	if !ok {
		return domain.NewNotFound("supplier", sup.ID)
	}
	updated := *sup
	updated.CreatedAt = stored.CreatedAt
	r.s.suppliers[sup.ID] = updated
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return domain.NewNotFound("supplier", id)
	}
	for _, item := range r.s.items {
		if item.SupplierID != nil && *item.SupplierID == id {
			return fmt.Errorf("%w: supplier %s is referenced by items", domain.ErrReferentialIntegrity, id)
		}
	}
	delete(r.s.suppliers, id)
	return nil
}

// ledgerRepo implements ports.LedgerRepository
type ledgerRepo struct{ s *Store }

func (r *ledgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *ledgerRepo) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, int64, error) {
	r.s.mu.RLock()
	var matched []domain.Transaction
	for _, t := range r.s.transactions {
		if filter.ItemID != nil && t.ItemID != *filter.ItemID {
			continue
		}
		if filter.WarehouseID != nil && !sameUUID(t.WarehouseID, filter.WarehouseID) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.From != nil && t.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !t.CreatedAt.Before(*filter.To) {
			continue
		}
		matched = append(matched, t)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if filter.Newest {
			return matched[i].TransactionNumber > matched[j].TransactionNumber
		}
		return matched[i].TransactionNumber < matched[j].TransactionNumber
	})
	return paginate(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *ledgerRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.byItem[itemID]
	out := make([]domain.Transaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.s.transactions[id])
	}
	return out, nil
}

func (r *ledgerRepo) UpdateLinks(ctx context.Context, id uuid.UUID, links ports.TransactionLinks) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return domain.NewNotFound("transaction", id)
	}
	if links.FinanceTransactionID != nil {
		v := *links.FinanceTransactionID
		t.FinanceTransactionID = &v
	}
	if links.LinkedDeliveryID != nil {
		v := *links.LinkedDeliveryID
		t.LinkedDeliveryID = &v
	}
	r.s.transactions[id] = t
	return nil
}

func paginate[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	if offset > 0 {
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
