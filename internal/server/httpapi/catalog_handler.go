package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/akoselev/eshop/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Catalog is the product and category surface the catalog handler drives.
type Catalog interface {
	Categories(ctx context.Context) ([]*models.Category, error)
	Products(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error)
	Hits(ctx context.Context) ([]*models.Product, error)
	Discounts(ctx context.Context) ([]*models.Product, error)
	Product(ctx context.Context, id string) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) ([]*models.Product, error)
	Search(ctx context.Context, query string) ([]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
}

type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type productResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Characteristic string   `json:"characteristic"`
	Category       string   `json:"category"`
	Price          float64  `json:"price"`
	OldPrice       float64  `json:"oldPrice"`
	Hit            bool     `json:"hit"`
	Discount       bool     `json:"discount"`
	InStock        bool     `json:"inStock"`
	URLImages      []string `json:"urlImages"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Characteristic: p.Characteristic,
		Category:       p.Category,
		Price:          p.Price,
		OldPrice:       p.OldPrice,
		Hit:            p.Hit,
		Discount:       p.Discount,
		InStock:        p.InStock,
		URLImages:      p.URLImages,
	}
}

func toProductResponses(list []*models.Product) []productResponse {
	out := make([]productResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	list, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// parseFilter reads the listing filter from query parameters. Unparseable
// numbers and booleans are treated as absent.
func parseFilter(c *gin.Context, subcategory string) *models.ProductFilter {
	filter := &models.ProductFilter{
		Subcategory: subcategory,
		Sort:        c.Query("sort"),
	}

	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.ParseBool(c.Query("discount")); err == nil {
		filter.Discount = &v
	}
	if v, err := strconv.ParseBool(c.Query("hit")); err == nil {
		filter.Hit = &v
	}
	if v, err := strconv.ParseBool(c.Query("inStock")); err == nil {
		filter.InStock = &v
	}

	return filter
}

func (h *CatalogHandler) Products(c *gin.Context) {
	subcategory := c.Param("subcategory")
	if subcategory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subcategory is required"})
		return
	}

	list, err := h.catalog.Products(c.Request.Context(), parseFilter(c, subcategory))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (h *CatalogHandler) Hits(c *gin.Context) {
	list, err := h.catalog.Hits(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (h *CatalogHandler) Discounts(c *gin.Context) {
	list, err := h.catalog.Discounts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (h *CatalogHandler) Product(c *gin.Context) {
	p, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

type byIDsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// ProductsByIDs resolves a basket or favorites list into products.
func (h *CatalogHandler) ProductsByIDs(c *gin.Context) {
	var req byIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}

	list, err := h.catalog.ProductsByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, []productResponse{})
		return
	}

	list, err := h.catalog.Search(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

type createProductRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Characteristic string   `json:"characteristic"`
	Category       string   `json:"category" binding:"required"`
	Price          float64  `json:"price" binding:"required"`
	OldPrice       float64  `json:"oldPrice"`
	Hit            bool     `json:"hit"`
	Discount       bool     `json:"discount"`
	InStock        bool     `json:"inStock"`
	URLImages      []string `json:"urlImages"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category and price are required"})
		return
	}

	created, err := h.catalog.CreateProduct(c.Request.Context(), &models.Product{
		Title:          req.Title,
		Description:    req.Description,
		Characteristic: req.Characteristic,
		Category:       req.Category,
		Price:          req.Price,
		OldPrice:       req.OldPrice,
		Hit:            req.Hit,
		Discount:       req.Discount,
		InStock:        req.InStock,
		URLImages:      req.URLImages,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(created))
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category and price are required"})
		return
	}

	updated, err := h.catalog.UpdateProduct(c.Request.Context(), &models.Product{
		ID:             c.Param("id"),
		Title:          req.Title,
		Description:    req.Description,
		Characteristic: req.Characteristic,
		Category:       req.Category,
		Price:          req.Price,
		OldPrice:       req.OldPrice,
		Hit:            req.Hit,
		Discount:       req.Discount,
		InStock:        req.InStock,
		URLImages:      req.URLImages,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(updated))
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type createCategoryRequest struct {
	Title         string               `json:"title" binding:"required"`
	OriginTitle   string               `json:"originTitle" binding:"required"`
	URLImg        string               `json:"urlImg"`
	Subcategories []models.Subcategory `json:"subcategories"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and originTitle are required"})
		return
	}

	created, err := h.catalog.CreateCategory(c.Request.Context(), &models.Category{
		Title:         req.Title,
		OriginTitle:   req.OriginTitle,
		URLImg:        req.URLImg,
		Subcategories: req.Subcategories,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
