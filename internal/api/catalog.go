package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var res []Product
	if err := c.get(ctx, "list_products", "/products", &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var res []Category
	if err := c.get(ctx, "list_categories", "/categories", &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListInventories(ctx context.Context) ([]InventoryLevel, error) {
	var res []InventoryLevel
	if err := c.get(ctx, "list_inventories", "/inventories", &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListRawMaterials(ctx context.Context) ([]RawMaterial, error) {
	var res []RawMaterial
	if err := c.get(ctx, "list_raw_materials", "/materiaprima", &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ProductMovements(ctx context.Context, productID ID) ([]Movement, error) {
	var res []Movement
	path := "/movements/producto/" + url.PathEscape(productID.String())
	if err := c.get(ctx, "product_movements", path, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) RawMaterialMovements(ctx context.Context, rawMaterialID ID) ([]Movement, error) {
	var res []Movement
	path := "/movements-materiaprima/materia-prima/" + url.PathEscape(rawMaterialID.String())
	if err := c.get(ctx, "raw_material_movements", path, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, call{
		op:     op,
		method: http.MethodGet,
		path:   path,
		out:    out,
	})
}
