package catalog

import (
	"context"
	"fmt"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the read-only slice of the remote API behind the catalog.
type Source interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	ListInventories(ctx context.Context) ([]api.InventoryLevel, error)
	ListRawMaterials(ctx context.Context) ([]api.RawMaterial, error)
	ProductMovements(ctx context.Context, productID api.ID) ([]api.Movement, error)
	RawMaterialMovements(ctx context.Context, rawMaterialID api.ID) ([]api.Movement, error)
}

type Service interface {
	Products(ctx context.Context, query string) ([]Product, error)
	Inventory(ctx context.Context, query string) ([]InventoryItem, error)
	RawMaterials(ctx context.Context, query string) ([]RawMaterial, error)
	ProductMovements(ctx context.Context, productID string) ([]Movement, error)
	RawMaterialMovements(ctx context.Context, rawMaterialID string) ([]Movement, error)
}

type service struct {
	source Source
}

func NewService(source Source) Service {
	return &service{source: source}
}

// Products lists products with their category names. Products and
// categories are fetched concurrently; a category failure only loses the
// names.
func (s *service) Products(ctx context.Context, query string) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Products"),
	)

	var (
		products   []api.Product
		categories []api.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.source.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.source.ListCategories(gctx)
		if err != nil {
			log.Warn("failed to get categories, names unavailable", zap.Error(err))
			categories = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to get products", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]Product, 0, len(products))
	for _, p := range mapProducts(products, categories) {
		if matches(p.Name, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) Inventory(ctx context.Context, query string) ([]InventoryItem, error) {
	levels, err := s.source.ListInventories(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get inventory", zap.Error(err))
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	out := make([]InventoryItem, 0, len(levels))
	for _, item := range mapInventory(levels) {
		if matches(item.Name, query) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *service) RawMaterials(ctx context.Context, query string) ([]RawMaterial, error) {
	raw, err := s.source.ListRawMaterials(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get raw materials", zap.Error(err))
		return nil, fmt.Errorf("list raw materials: %w", err)
	}

	out := make([]RawMaterial, 0, len(raw))
	for _, r := range mapRawMaterials(raw) {
		if matches(r.Name, query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *service) ProductMovements(ctx context.Context, productID string) ([]Movement, error) {
	moves, err := s.source.ProductMovements(ctx, api.ID(productID))
	return traceability(ctx, "product", productID, moves, err)
}

func (s *service) RawMaterialMovements(ctx context.Context, rawMaterialID string) ([]Movement, error) {
	moves, err := s.source.RawMaterialMovements(ctx, api.ID(rawMaterialID))
	return traceability(ctx, "raw_material", rawMaterialID, moves, err)
}

// traceability folds fetch failures and empty timelines into
// ErrNoTraceability, keeping the cause in the chain.
func traceability(ctx context.Context, kind, id string, moves []api.Movement, err error) ([]Movement, error) {
	log := logger.FromCtx(ctx).With(zap.String("kind", kind), zap.String("id", id))

	if err != nil {
		log.Warn("failed to get movements", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNoTraceability, err)
	}
	if len(moves) == 0 {
		return nil, ErrNoTraceability
	}
	return mapMovements(moves), nil
}
