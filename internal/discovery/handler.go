package discovery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cookingapp/internal/apperr"
	"cookingapp/internal/httpx"
	"cookingapp/pkg/models"
)

// Handler exposes the stored markets.
type Handler struct {
	Markets *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Markets: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)    // GET /api/markets?city=
	rg.POST("", h.create) // POST /api/markets
}

func (h *Handler) list(c *gin.Context) {
	markets, err := h.Markets.List(c.Request.Context(), c.Query("city"))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, markets)
}

type marketReq struct {
	City             string `json:"city" binding:"required"`
	Name             string `json:"supermarket_name" binding:"required"`
	OfficialWebsite  string `json:"official_website" binding:"omitempty,http_url"`
	CatalogSearchURL string `json:"catalog_search_url"`
	Notes            string `json:"notes"`
}

func (h *Handler) create(c *gin.Context) {
	var req marketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid market payload: "+err.Error())
		return
	}
	m := models.Market{
		City:             strings.TrimSpace(req.City),
		Name:             strings.TrimSpace(req.Name),
		OfficialWebsite:  strings.TrimSpace(req.OfficialWebsite),
		CatalogSearchURL: strings.TrimSpace(req.CatalogSearchURL),
		Notes:            req.Notes,
	}
	ok, err := h.Markets.Insert(c.Request.Context(), &m)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	if !ok {
		httpx.RespondError(c, apperr.Conflict("Market", "name", m.Name))
		return
	}
	c.JSON(http.StatusCreated, m)
}
