package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	svc      service.TitleService
	pageSize int
}

func NewTitleHandler(svc service.TitleService, pageSize int) *TitleHandler {
	return &TitleHandler{svc: svc, pageSize: pageSize}
}

// RegisterRoutes mounts the title collection on rg. Nested reviews are
// registered separately so they can carry their own policy.
func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.Require(permission.AdminWriteOrReadOnly))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:title_id", h.Get)
	g.PATCH("/:title_id", h.Update)
	g.DELETE("/:title_id", h.Delete)
}

// List handles GET /titles?name=&genre=&category=&year=&year_min=&year_max=&page=
func (h *TitleHandler) List(c *gin.Context) {
	var q dto.TitleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	q.Page = pageOf(q.Page)

	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := h.svc.List(ctx, q, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(list, total, q.Page, h.pageSize, c.Request.URL))
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	title, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

func (h *TitleHandler) Create(c *gin.Context) {
	var in dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	title, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	var in dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	title, err := h.svc.Update(ctx, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
