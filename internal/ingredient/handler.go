package ingredient

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cookingapp/internal/httpx"
)

type Handler struct {
	Service   *Service
	Discovery Discoverer
}

func NewHandler(svc *Service, discovery Discoverer) *Handler {
	return &Handler{Service: svc, Discovery: discovery}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.POST("/bulk", h.createBulk)
	rg.GET("", h.list)
	rg.GET("/search", h.searchByName)
	rg.GET("/search/by-nutrition", h.searchByNutrient)
	rg.GET("/discover-supermarkets", h.discoverByQuery)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/store-locations", h.storeLocations)
	// :id carries the ingredient name on this route.
	rg.GET("/:id/discover-supermarkets", h.discoverByPath)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid ingredient payload: "+err.Error())
		return
	}
	ing, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *Handler) createBulk(c *gin.Context) {
	var ins []Input
	if err := c.ShouldBindJSON(&ins); err != nil {
		httpx.BadRequest(c, "invalid ingredient payload: "+err.Error())
		return
	}
	if len(ins) == 0 {
		httpx.BadRequest(c, "at least one ingredient is required")
		return
	}
	out, err := h.Service.CreateBulk(c.Request.Context(), ins)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Service.List(c.Request.Context())
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	ing, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid ingredient payload: "+err.Error())
		return
	}
	ing, err := h.Service.Update(c.Request.Context(), id, in)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
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

func (h *Handler) storeLocations(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	out, err := h.Service.StoreLocations(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) searchByName(c *gin.Context) {
	out, err := h.Service.SearchByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) searchByNutrient(c *gin.Context) {
	var minValue *float64
	if raw := strings.TrimSpace(c.Query("minValue")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.BadRequest(c, "invalid minValue")
			return
		}
		minValue = &v
	}
	out, err := h.Service.SearchByNutrient(c.Request.Context(), c.Query("nutrient"), minValue)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) discoverByQuery(c *gin.Context) {
	h.discover(c, c.Query("ingredientName"))
}

func (h *Handler) discoverByPath(c *gin.Context) {
	h.discover(c, c.Param("id"))
}

func (h *Handler) discover(c *gin.Context, term string) {
	userID, ok := httpx.OptionalID(c, "userId")
	if !ok {
		return
	}
	out, err := h.Discovery.Discover(c.Request.Context(), userID, c.Query("city"), term)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
