package food

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cookingapp/internal/httpx"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)                        // POST /api/foods
	rg.GET("", h.list)                           // GET /api/foods
	rg.GET("/:id", h.get)                        // GET /api/foods/:id
	rg.PUT("/:id", h.update)                     // PUT /api/foods/:id
	rg.DELETE("/:id", h.delete)                  // DELETE /api/foods/:id
	rg.GET("/:id/recipe-status", h.recipeStatus) // GET /api/foods/:id/recipe-status
	rg.GET("/:id/recipes", h.recipes)            // GET /api/foods/:id/recipes
	rg.POST("/:id/recipes", h.addRecipe)         // POST /api/foods/:id/recipes
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid food payload: "+err.Error())
		return
	}
	f, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) list(c *gin.Context) {
	foods, err := h.Service.List(c.Request.Context())
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	f, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid food payload: "+err.Error())
		return
	}
	f, err := h.Service.Update(c.Request.Context(), id, in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) recipeStatus(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	st, err := h.Service.RecipeStatus(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) recipes(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	recs, err := h.Service.Recipes(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) addRecipe(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	var v RecipeVersion
	if err := c.ShouldBindJSON(&v); err != nil {
		httpx.BadRequest(c, "invalid recipe payload: "+err.Error())
		return
	}
	rec, err := h.Service.AddRecipe(c.Request.Context(), id, v)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
