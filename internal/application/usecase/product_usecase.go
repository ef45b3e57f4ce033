// Package usecase contiene los casos de uso CRUD de productos.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/confirm"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

const deleteProductAction = "delete_product"

// ProductUseCase casos de uso CRUD para productos. Todas las operaciones se
// acotan al usuario autenticado; el borrado es destructivo y pasa por el gate
// de confirmación en dos pasos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	gate     *confirm.Gate
	notifier state.Notifier
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, gate *confirm.Gate, notifier state.Notifier) *ProductUseCase {
	return &ProductUseCase{repo: repo, gate: gate, notifier: notifier}
}

// Create crea un nuevo producto del usuario.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Category == "" || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Category:  in.Category,
		Stock:     in.Stock,
		Cost:      in.Cost,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, userID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del usuario.
func (uc *ProductUseCase) GetByID(ctx context.Context, userID, id string) (*dto.ProductResponse, error) {
	product, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes. Modificar el stock acá es el ajuste
// manual de inventario; los descuentos por venta pasan por la transacción de
// confirmación.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Category != nil {
		if *in.Category == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Category = *in.Category
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Stock = *in.Stock
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, userID)
	return toProductResponse(product), nil
}

// List lista los productos del usuario, más recientes primero.
func (uc *ProductUseCase) List(ctx context.Context, userID string) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(list))}
	for _, p := range list {
		resp.Items = append(resp.Items, *toProductResponse(p))
	}
	return resp, nil
}

// DeleteResult resultado tipado del borrado. Pending != nil significa que la
// operación quedó a la espera del token de confirmación.
type DeleteResult struct {
	Pending *confirm.Pending
}

// Delete elimina un producto del usuario. Sin token devuelve el resultado
// pendiente; con un token inválido o vencido devuelve ErrForbidden sin tocar
// datos. Las ventas históricas conservan sus snapshots, así que el reporte
// sigue mostrando el producto borrado.
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id, token string) (*DeleteResult, error) {
	if _, err := uc.owned(userID, id); err != nil {
		return nil, err
	}
	subject := userID + "|" + id
	if token == "" {
		pending := uc.gate.Request(deleteProductAction, subject)
		return &DeleteResult{Pending: &pending}, nil
	}
	if !uc.gate.Redeem(token, deleteProductAction, subject) {
		return nil, domain.ErrForbidden
	}
	if err := uc.repo.Delete(id); err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, userID)
	return &DeleteResult{}, nil
}

func (uc *ProductUseCase) owned(userID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Stock:     p.Stock,
		Cost:      p.Cost,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
