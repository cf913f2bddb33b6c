package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for Inventory Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// GetTree godoc
// @Summary Get category tree
// @Description Get the hierarchical category tree, optionally scoped to a subtree and enriched with aggregated item stats
// @Tags Categories
// @Produce json
// @Param root_id query int false "Root category ID (omit for full forest)"
// @Param max_depth query int false "Maximum depth below the root (0 = unlimited)"
// @Param include_stats query bool false "Include aggregated item count, stock and value per node"
// @Param business_type query string false "Scope to one business type"
// @Param include_inactive query bool false "Include inactive categories"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/categories/tree [get]
func (h *CategoryHandler) GetTreeDoc() {}

// CreateCategory godoc
// @Summary Create category
// @Description Create a new category under an optional parent (Admin only)
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,parent_id=int,business_type=string,attribute_schema=object,sort_order=int} true "Category data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/categories [post]
func (h *CategoryHandler) CreateCategoryDoc() {}

// MoveCategory godoc
// @Summary Move category
// @Description Re-parent a category and recompute subtree levels atomically (Admin only)
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body object{new_parent_id=int} true "New parent (null for root)"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/categories/{id}/move [patch]
func (h *CategoryHandler) MoveCategoryDoc() {}

// DeleteCategory godoc
// @Summary Delete category
// @Description Delete a category under an explicit policy: reject when non-empty, or reassign contents to the parent (Admin only)
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Param policy query string true "Delete policy" Enums(reject, reassign_to_parent)
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategoryDoc() {}
