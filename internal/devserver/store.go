package devserver

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fitmrp-client/internal/pricing"

	"github.com/google/uuid"
)

// Store keeps all dev server state in memory. It is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID uint

	users        map[uint]*userRecord
	products     []productRecord
	categories   []categoryRecord
	inventories  []inventoryRecord
	rawMaterials []rawMaterialRecord
	movements    []movementRecord
	carts        map[uint][]pricing.Line
	orders       []orderRecord
	refunds      []refundRecord
}

func NewStore() *Store {
	return &Store{
		now:    time.Now,
		nextID: 1,
		users:  make(map[uint]*userRecord),
		carts:  make(map[uint][]pricing.Line),
	}
}

// id must be called with mu held.
func (s *Store) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

// ----------------- Users -----------------

func (s *Store) CreateUser(name, email, passwordHash string, roleID int) (userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return userRecord{}, ErrEmailExists
		}
	}
	if roleID == 0 {
		roleID = RoleCustomer
	}

	u := &userRecord{
		ID:           s.id(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		RoleID:       roleID,
	}
	s.users[u.ID] = u
	return *u, nil
}

func (s *Store) userByEmail(email string) (userRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return *u, true
		}
	}
	return userRecord{}, false
}

// Authenticate returns the user whose bcrypt hash matches password.
func (s *Store) Authenticate(email, password string) (userRecord, error) {
	u, ok := s.userByEmail(email)
	if !ok || !CheckPasswordHash(password, u.PasswordHash) {
		return userRecord{}, ErrInvalidCredentials
	}
	return u, nil
}

// ----------------- Catalog -----------------

func (s *Store) AddCategory(name string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := categoryRecord{ID: s.id(), Name: name}
	s.categories = append(s.categories, c)
	return c.ID
}

// AddProduct registers a product with its inventory level and an opening
// stock movement.
func (s *Store) AddProduct(p productRecord, stock int) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.id()
	s.products = append(s.products, p)
	s.inventories = append(s.inventories, inventoryRecord{ID: s.id(), ProductID: p.ID, Available: stock})
	s.movements = append(s.movements, movementRecord{
		ID:        s.id(),
		Type:      MovementIn,
		Date:      s.now(),
		Notes:     fmt.Sprintf("Inventario inicial: %d", stock),
		ProductID: p.ID,
	})
	return p.ID
}

func (s *Store) AddRawMaterial(name string, movements ...string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := rawMaterialRecord{ID: s.id(), Name: name}
	s.rawMaterials = append(s.rawMaterials, m)
	for _, notes := range movements {
		s.movements = append(s.movements, movementRecord{
			ID:            s.id(),
			Type:          MovementIn,
			Date:          s.now(),
			Notes:         notes,
			RawMaterialID: m.ID,
		})
	}
	return m.ID
}

func (s *Store) Products() []productRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]productRecord(nil), s.products...)
}

func (s *Store) Categories() []categoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]categoryRecord(nil), s.categories...)
}

func (s *Store) RawMaterials() []rawMaterialRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]rawMaterialRecord(nil), s.rawMaterials...)
}

type inventoryView struct {
	inventoryRecord
	Name string
}

func (s *Store) Inventories() []inventoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]inventoryView, 0, len(s.inventories))
	for _, inv := range s.inventories {
		name := ""
		if p, ok := s.product(inv.ProductID); ok {
			name = p.Name
		}
		out = append(out, inventoryView{inventoryRecord: inv, Name: name})
	}
	return out
}

func (s *Store) ProductMovements(productID uint) []movementRecord {
	return s.movementsWhere(func(m movementRecord) bool { return m.ProductID == productID })
}

func (s *Store) RawMaterialMovements(materialID uint) []movementRecord {
	return s.movementsWhere(func(m movementRecord) bool { return m.RawMaterialID == materialID })
}

func (s *Store) movementsWhere(keep func(movementRecord) bool) []movementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []movementRecord{}
	for _, m := range s.movements {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// product must be called with mu held.
func (s *Store) product(id uint) (productRecord, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return productRecord{}, false
}

// ----------------- Cart -----------------

func (s *Store) Cart(userID uint) []pricing.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]pricing.Line{}, s.carts[userID]...)
}

// AddItem adds quantity to the product's line, creating it if needed.
func (s *Store) AddItem(userID, productID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.product(productID)
	if !ok {
		return ErrProductNotFound
	}

	key := strconv.FormatUint(uint64(productID), 10)
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ProductID == key {
			lines[i].Quantity += quantity
			return nil
		}
	}
	s.carts[userID] = append(lines, pricing.Line{
		ProductID: key,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
	return nil
}

func (s *Store) UpdateItem(userID, productID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatUint(uint64(productID), 10)
	for i, l := range s.carts[userID] {
		if l.ProductID == key {
			s.carts[userID][i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *Store) RemoveItem(userID, productID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatUint(uint64(productID), 10)
	lines := s.carts[userID]
	for i, l := range lines {
		if l.ProductID == key {
			s.carts[userID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Checkout turns the user's cart into an order, empties the cart and books
// an outbound stock movement per line.
func (s *Store) Checkout(userID uint) (orderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	if len(lines) == 0 {
		return orderRecord{}, ErrCartEmpty
	}

	o := orderRecord{
		ID:     s.id(),
		UserID: userID,
		Date:   s.now(),
		Lines:  append([]pricing.Line(nil), lines...),
		Total:  pricing.ComputeTotals(lines).Total,
	}
	s.orders = append(s.orders, o)
	delete(s.carts, userID)

	for _, l := range o.Lines {
		pid, err := strconv.ParseUint(l.ProductID, 10, 64)
		if err != nil {
			continue
		}
		for i := range s.inventories {
			if s.inventories[i].ProductID == uint(pid) {
				s.inventories[i].Available = max(0, s.inventories[i].Available-l.Quantity)
			}
		}
		s.movements = append(s.movements, movementRecord{
			ID:        s.id(),
			Type:      MovementOut,
			Date:      o.Date,
			Notes:     fmt.Sprintf("Pedido #%d: %d unidades", o.ID, l.Quantity),
			ProductID: uint(pid),
		})
	}

	return o, nil
}

// ----------------- Orders -----------------

func (s *Store) Orders(userID uint) []orderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []orderRecord{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) Order(id uint) (orderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return orderRecord{}, ErrOrderNotFound
}

// CreateRefund records a refund request. A repeated idempotency key returns
// the original record with created=false.
func (s *Store) CreateRefund(orderID uint, reason, status, key string) (refundRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.refunds {
		if key != "" && r.IdempotencyKey == key {
			return r, false, nil
		}
	}
	for _, r := range s.refunds {
		if r.OrderID == orderID {
			return refundRecord{}, false, ErrRefundExists
		}
	}

	r := refundRecord{
		ID:             uuid.NewString(),
		OrderID:        orderID,
		Reason:         reason,
		Status:         status,
		IdempotencyKey: key,
		CreatedAt:      s.now(),
	}
	s.refunds = append(s.refunds, r)
	return r, true, nil
}

func (s *Store) Refunds() []refundRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]refundRecord(nil), s.refunds...)
}
