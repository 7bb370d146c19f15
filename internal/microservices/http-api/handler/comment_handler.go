package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc      service.CommentService
	pageSize int
}

func NewCommentHandler(svc service.CommentService, pageSize int) *CommentHandler {
	return &CommentHandler{svc: svc, pageSize: pageSize}
}

// RegisterRoutes expects rg to be /titles/:title_id/reviews/:review_id/comments.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.Require(permission.AuthorContent))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:comment_id", h.Get)
	rg.PATCH("/:comment_id", h.Update)
	rg.DELETE("/:comment_id", h.Delete)
}

// parents resolves the two ancestor ids from the path.
func parents(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = pathID(c, "title_id"); !ok {
		return
	}
	reviewID, ok = pathID(c, "review_id")
	return
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page := pageOf(q.Page)

	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := h.svc.List(ctx, titleID, reviewID, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(list, total, page, h.pageSize, c.Request.URL))
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.svc.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	var in dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.svc.Create(ctx, middleware.PrincipalFrom(c), titleID, reviewID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	var in dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.svc.Update(ctx, middleware.PrincipalFrom(c), titleID, reviewID, commentID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.PrincipalFrom(c), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
