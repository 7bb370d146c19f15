package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc      service.CategoryService
	pageSize int
}

func NewCategoryHandler(svc service.CategoryService, pageSize int) *CategoryHandler {
	return &CategoryHandler{svc: svc, pageSize: pageSize}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.Require(permission.AdminWriteOrReadOnly))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page := pageOf(q.Page)

	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := h.svc.List(ctx, q.Search, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(list, total, page, h.pageSize, c.Request.URL))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in dto.CategoryRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type GenreHandler struct {
	svc      service.GenreService
	pageSize int
}

func NewGenreHandler(svc service.GenreService, pageSize int) *GenreHandler {
	return &GenreHandler{svc: svc, pageSize: pageSize}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.Require(permission.AdminWriteOrReadOnly))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page := pageOf(q.Page)

	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := h.svc.List(ctx, q.Search, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(list, total, page, h.pageSize, c.Request.URL))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.GenreRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
