package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cookingapp/internal/apperr"
	"cookingapp/internal/httpx"
	"cookingapp/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id/city", h.updateCity)
}

type createReq struct {
	UserName string `json:"user_name" binding:"required,max=80"`
	Email    string `json:"email" binding:"omitempty,email"`
	City     string `json:"city" binding:"max=120"`
}

type cityReq struct {
	City string `json:"city" binding:"max=120"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid user payload: "+err.Error())
		return
	}
	u := &models.User{
		UserName: strings.TrimSpace(req.UserName),
		Email:    strings.TrimSpace(req.Email),
		City:     strings.TrimSpace(req.City),
	}
	if err := h.Repo.Create(c.Request.Context(), u); err != nil {
		httpx.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	u, err := h.Repo.FindByID(c.Request.Context(), id)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	if u == nil {
		httpx.RespondError(c, apperr.NotFound("User", id))
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) updateCity(c *gin.Context) {
	id, ok := httpx.ParseID(c, "id")
	if !ok {
		return
	}
	var req cityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid city payload: "+err.Error())
		return
	}
	found, err := h.Repo.UpdateCity(c.Request.Context(), id, strings.TrimSpace(req.City))
	if err != nil {
		httpx.RespondError(c, err)
		return
	}
	if !found {
		httpx.RespondError(c, apperr.NotFound("User", id))
		return
	}
	c.Status(http.StatusNoContent)
}
