// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en tests y en modo dev sin PostgreSQL/Redis. Las
// transacciones se emulan con snapshot + restore del estado completo.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	appsale "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/sale"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

// Compile-time checks de los puertos implementados. Los puertos de venta y
// usuario se exponen vía adapters (Sales, Users) porque sus nombres de método
// chocan con los del puerto de productos.
var (
	_ repository.ProductRepository = (*Store)(nil)
	_ cart.Store                   = (*Store)(nil)
	_ appsale.TxRunner             = (*Store)(nil)
)

// Store almacén en memoria: productos, ventas, usuarios y carritos.
type Store struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	products     map[string]entity.Product
	sales        map[string]entity.Sale
	usersByID    map[string]entity.User
	usersByEmail map[string]string
	carts        map[string]entity.Cart

	failTx error // si no es nil, la próxima transacción falla al confirmar
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]entity.Product),
		sales:        make(map[string]entity.Sale),
		usersByID:    make(map[string]entity.User),
		usersByEmail: make(map[string]string),
		carts:        make(map[string]entity.Cart),
	}
}

// FailNextTx fuerza que la próxima transacción sea rechazada con err,
// simulando un almacén caído o un conflicto de commit. Solo para tests.
func (s *Store) FailNextTx(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTx = err
}

// ── ProductRepository ────────────────────────────────────────────────────────

func (s *Store) Create(p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; exists {
		return domain.ErrDuplicate
	}
	s.products[p.ID] = *p
	return nil
}

func (s *Store) GetByID(id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (s *Store) Update(p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	s.products[p.ID] = *p
	return nil
}

func (s *Store) ListByUser(userID string) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range s.products {
		if p.UserID == userID {
			cp := p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	return nil
}

func (s *Store) DecrementStock(productID string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock < qty {
		return domain.ErrOutOfStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now()
	s.products[productID] = p
	return nil
}

// Products devuelve el puerto de productos.
func (s *Store) Products() repository.ProductRepository { return s }

// Sales devuelve el puerto de ventas.
func (s *Store) Sales() repository.SaleRepository { return saleRepoAdapter{s} }

// Users devuelve el puerto de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepoAdapter{s} }

// ── SaleRepository ───────────────────────────────────────────────────────────

func (s *Store) createSale(sale *entity.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sales[sale.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *sale
	cp.Items = nil // las líneas entran por CreateItem
	s.sales[sale.ID] = cp
	return nil
}

func (s *Store) CreateItem(item *entity.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[item.SaleID]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Items = append(sale.Items, *item)
	s.sales[item.SaleID] = sale
	return nil
}

func (s *Store) GetSaleByID(id string) (*entity.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	return &cp, nil
}

func (s *Store) ListByUserSales(userID string) ([]*entity.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.Sale
	for _, sale := range s.sales {
		if sale.UserID == userID {
			cp := sale
			cp.Items = append([]entity.SaleItem(nil), sale.Items...)
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (s *Store) DeleteByDateRange(userID string, from, to time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, sale := range s.sales {
		if sale.UserID == userID && !sale.Date.Before(from) && sale.Date.Before(to) {
			delete(s.sales, id)
			deleted++
		}
	}
	return deleted, nil
}

// ── UserRepository ───────────────────────────────────────────────────────────

func (s *Store) CreateUser(u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[u.Email]; exists {
		return domain.ErrEmailAlreadyExists
	}
	s.usersByID[u.ID] = *u
	s.usersByEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByID(id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByID[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (s *Store) GetByEmail(email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	u := s.usersByID[id]
	cp := u
	return &cp, nil
}

func (s *Store) UpdateUser(u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	s.usersByID[u.ID] = *u
	return nil
}

// ── cart.Store ───────────────────────────────────────────────────────────────

func (s *Store) Load(_ context.Context, userID string) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[userID]
	if !ok {
		return &entity.Cart{}, nil
	}
	cp := entity.Cart{Items: append([]entity.CartItem(nil), c.Items...)}
	return &cp, nil
}

func (s *Store) Save(_ context.Context, userID string, c *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = entity.Cart{Items: append([]entity.CartItem(nil), c.Items...)}
	return nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// Run emula la transacción: toma un snapshot de productos y ventas, ejecuta fn
// y restaura el snapshot si fn falla o hay un fallo forzado de commit. Las
// transacciones se serializan entre sí.
func (s *Store) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	productsSnap, salesSnap := s.snapshot()

	err := fn(s, saleRepoAdapter{s})
	if err == nil {
		s.mu.Lock()
		err = s.failTx
		s.failTx = nil
		s.mu.Unlock()
	}
	if err != nil {
		s.restore(productsSnap, salesSnap)
		return err
	}
	return nil
}

func (s *Store) snapshot() (map[string]entity.Product, map[string]entity.Sale) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	sales := make(map[string]entity.Sale, len(s.sales))
	for k, v := range s.sales {
		cp := v
		cp.Items = append([]entity.SaleItem(nil), v.Items...)
		sales[k] = cp
	}
	return products, sales
}

func (s *Store) restore(products map[string]entity.Product, sales map[string]entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.sales = sales
}

// saleRepoAdapter resuelve el choque de nombres entre los puertos de producto
// y de venta implementados por el mismo Store.
type saleRepoAdapter struct{ s *Store }

var _ repository.SaleRepository = saleRepoAdapter{}

func (a saleRepoAdapter) Create(sale *entity.Sale) error          { return a.s.createSale(sale) }
func (a saleRepoAdapter) CreateItem(item *entity.SaleItem) error  { return a.s.CreateItem(item) }
func (a saleRepoAdapter) GetByID(id string) (*entity.Sale, error) { return a.s.GetSaleByID(id) }
func (a saleRepoAdapter) ListByUser(userID string) ([]*entity.Sale, error) {
	return a.s.ListByUserSales(userID)
}
func (a saleRepoAdapter) DeleteByDateRange(userID string, from, to time.Time) (int64, error) {
	return a.s.DeleteByDateRange(userID, from, to)
}

// userRepoAdapter idem para el puerto de usuarios.
type userRepoAdapter struct{ s *Store }

var _ repository.UserRepository = userRepoAdapter{}

func (a userRepoAdapter) Create(u *entity.User) error            { return a.s.CreateUser(u) }
func (a userRepoAdapter) GetByID(id string) (*entity.User, error) { return a.s.GetUserByID(id) }
func (a userRepoAdapter) GetByEmail(email string) (*entity.User, error) {
	return a.s.GetByEmail(email)
}
func (a userRepoAdapter) Update(u *entity.User) error { return a.s.UpdateUser(u) }
