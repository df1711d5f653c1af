package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
)

// imageFormField is the multipart field carrying an uploaded product image.
const imageFormField = "image"

// ProductsAPI wires HTTP transport with the catalog bounded context service.
type ProductsAPI struct {
	service catalogports.Service
}

// NewProductsAPI creates a ProductsAPI backed by the provided service.
func NewProductsAPI(service catalogports.Service) ProductsAPI {
	return ProductsAPI{service: service}
}

// Get /api/products
// Lists the catalog
func (api *ProductsAPI) ListProducts(c *gin.Context) {
	products, err := api.service.GetProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// Get /api/products/:id
func (api *ProductsAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(product))
}

// Post /api/quotes
// Prices a cart against the catalog
func (api *ProductsAPI) QuoteCart(c *gin.Context) {
	var payload producthttpmapper.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	quote, err := api.service.Quote(c.Request.Context(), producthttpmapper.ToCartLines(payload), payload.PromoCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainQuote(quote))
}

// Post /admin/api/products
// Adds a product to the catalog
func (api *ProductsAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.ProductInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.AddProduct(c.Request.Context(), producthttpmapper.ToDraft(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producthttpmapper.FromDomainProduct(product))
}

// Put /admin/api/products/:id
func (api *ProductsAPI) UpdateProduct(c *gin.Context) {
	var payload producthttpmapper.ProductInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), c.Param("id"), producthttpmapper.ToDraft(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(product))
}

// Delete /admin/api/products/:id
func (api *ProductsAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /admin/api/products/images
// Uploads a product image and returns its public URL
func (api *ProductsAPI) UploadProductImage(c *gin.Context) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		respondBadRequest(c, errors.New("multipart field \"image\" is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	defer file.Close()

	url, err := api.service.UploadImage(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
