package controllers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
)

type FoodController struct {
	Catalog *services.CatalogService
}

func NewFoodController(catalog *services.CatalogService) *FoodController {
	return &FoodController{Catalog: catalog}
}

type foodReq struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
}

func (r *foodReq) toIn() *services.FoodIn {
	return &services.FoodIn{
		Name:        r.Name,
		Price:       *r.Price,
		Category:    r.Category,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// GET /api/foods?category=
func (ctl *FoodController) List(c *gin.Context) {
	foods, err := ctl.Catalog.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		log.Printf("list foods: %v", err)
		resp.ServerError(c, "Server error")
		return
	}
	resp.OK(c, foods)
}

// GET /api/foods/categories
func (ctl *FoodController) Categories(c *gin.Context) {
	cats, err := ctl.Catalog.Categories(c.Request.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		resp.ServerError(c, "Server error")
		return
	}
	resp.OK(c, cats)
}

// GET /api/foods/slug/:slug
func (ctl *FoodController) GetBySlug(c *gin.Context) {
	food, err := ctl.Catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		resp.NotFound(c, "Food not found")
		return
	}
	if err != nil {
		log.Printf("get food by slug: %v", err)
		resp.ServerError(c, "Server error")
		return
	}
	resp.OK(c, food)
}

// GET /api/foods/:id
func (ctl *FoodController) Get(c *gin.Context) {
	food, err := ctl.Catalog.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		resp.NotFound(c, "Food not found")
		return
	}
	if err != nil {
		log.Printf("get food: %v", err)
		resp.ServerError(c, "Server error")
		return
	}
	resp.OK(c, food)
}

// POST /api/foods
func (ctl *FoodController) Create(c *gin.Context) {
	var req foodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "Invalid data")
		return
	}

	food, err := ctl.Catalog.Create(c.Request.Context(), req.toIn())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	resp.Created(c, food)
}

// PUT /api/foods/:id
func (ctl *FoodController) Update(c *gin.Context) {
	var req foodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "Invalid data")
		return
	}

	food, err := ctl.Catalog.Update(c.Request.Context(), c.Param("id"), req.toIn())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	resp.OK(c, food)
}

// DELETE /api/foods/:id
func (ctl *FoodController) Delete(c *gin.Context) {
	err := ctl.Catalog.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		resp.NotFound(c, "Food not found")
		return
	}
	if err != nil {
		log.Printf("delete food: %v", err)
		resp.ServerError(c, "Delete failed")
		return
	}
	resp.OK(c, gin.H{"msg": "Deleted"})
}

// PATCH /api/foods/fix-missing-prices
func (ctl *FoodController) FixMissingPrices(c *gin.Context) {
	n, err := ctl.Catalog.FixMissingPrices(c.Request.Context())
	if err != nil {
		log.Printf("fix missing prices: %v", err)
		resp.ServerError(c, "Failed to fix missing prices")
		return
	}
	resp.OK(c, gin.H{"fixedCount": n})
}

func writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrBadPrice),
		errors.Is(err, services.ErrSlugTaken):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		resp.NotFound(c, "Food not found")
	default:
		log.Printf("catalog write: %v", err)
		resp.ServerError(c, "Server error")
	}
}
