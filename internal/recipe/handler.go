package recipe

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
	rg.POST("", h.create)                      // POST /api/recipes
	rg.POST("/foods/:foodId", h.createForFood) // POST /api/recipes/foods/:foodId
	rg.GET("", h.list)                         // GET /api/recipes
	rg.GET("/:id", h.get)                      // GET /api/recipes/:id
	rg.PUT("/:id", h.update)                   // PUT /api/recipes/:id
	rg.DELETE("/:id", h.delete)                // DELETE /api/recipes/:id
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid recipe payload: "+err.Error())
		return
	}
	rec, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) createForFood(c *gin.Context) {
	foodID, ok := httpx.ParseID(c, "foodId")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid recipe payload: "+err.Error())
		return
	}
	in.FoodID = &foodID

	rec, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.Service.List(c.Request.Context())
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	rec, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid recipe payload: "+err.Error())
		return
	}
	rec, err := h.Service.Update(c.Request.Context(), id, in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
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
