package storefrontserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/storefront/orders-inventory/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
)

// ProductsAPI wires HTTP transport with the catalog bounded context service.
type ProductsAPI struct {
	service catalogports.Service
}

// NewProductsAPI creates a ProductsAPI backed by the provided service.
func NewProductsAPI(service catalogports.Service) ProductsAPI {
	return ProductsAPI{service: service}
}

// Post /products
// Register a new product
func (api *ProductsAPI) CreateProduct(c *gin.Context) {
	var payload cataloghttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.Create(c.Request.Context(), cataloghttpmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/products/%d", saved.ID))
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomain(saved))
}

// Get /products
// List products with pagination
func (api *ProductsAPI) ListProducts(c *gin.Context) {
	page, ok := parseQueryInt(c, "page", 1)
	if !ok {
		return
	}
	size, ok := parseQueryInt(c, "size", 20)
	if !ok {
		return
	}
	result, err := api.service.List(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromPage(result))
}

// Get /products/:productId
// Find product by ID
func (api *ProductsAPI) GetProductById(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomain(product))
}

// Put /products/:productId
// Update an existing product; ?partial=true leaves absent fields untouched
func (api *ProductsAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	partial := c.Query("partial") == "true"
	var payload cataloghttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, cataloghttpmapper.ToUpdateInput(payload), partial)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomain(updated))
}

// Delete /products/:productId
// Remove a product from the catalog
func (api *ProductsAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%s must be an integer", name))
		return 0, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%s must be an integer", name))
		return 0, false
	}
	return value, true
}
