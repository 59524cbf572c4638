package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductUseCase casos de uso CRUD para productos. Cada operación corre en una transacción.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, now: time.Now}
}

// Create crea un producto. Falla con domain.ErrDuplicateSKU si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := entity.NewProduct(in.Name, in.Description, in.Price, in.SKU, uc.now())
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		existing, err := repos.Products.GetBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateSKU
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.TxRepos) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update aplica una edición parcial. Cambiar el SKU a uno existente falla con domain.ErrDuplicateSKU.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.ClearPrice {
			p.Price = nil
		} else if in.Price != nil {
			price := *in.Price
			p.Price = &price
		}
		if in.SKU != nil {
			p.SKU = *in.SKU
		}
		if err := p.Normalize(); err != nil {
			return err
		}
		other, err := repos.Products.GetBySKU(ctx, p.SKU)
		if err != nil {
			return err
		}
		if other != nil && other.ID != p.ID {
			return domain.ErrDuplicateSKU
		}
		p.UpdatedAt = uc.now().UTC().Truncate(time.Microsecond)
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista todos los productos en orden de alta.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	var list []*entity.Product
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.TxRepos) error {
		var err error
		list, err = repos.Products.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto. Si algún movimiento lo referencia el borrado se bloquea con
// domain.ErrReferencedByMovements: primero hay que limpiar el libro.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		refs, err := repos.Movements.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrReferencedByMovements
		}
		return repos.Products.Delete(ctx, id)
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		SKU:         p.SKU,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
