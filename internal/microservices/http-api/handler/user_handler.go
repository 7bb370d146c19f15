package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	pageSize    int
}

func NewUserHandler(userService service.UserService, pageSize int) *UserHandler {
	return &UserHandler{userService: userService, pageSize: pageSize}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	me := rg.Group("/me", middleware.Require(permission.SelfProfile))
	me.GET("", h.GetMe)
	me.PATCH("", h.UpdateMe)
	me.DELETE("", h.DeleteMe)

	admin := rg.Group("", middleware.Require(permission.UserAdmin))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.GET("/:username", h.Get)
	admin.PATCH("/:username", h.Update)
	admin.DELETE("/:username", h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page := pageOf(q.Page)

	ctx, cancel := requestContext(c)
	defer cancel()

	users, total, err := h.userService.List(ctx, q.Search, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(users, total, page, h.pageSize, c.Request.URL))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Get(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Update(ctx, c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userService.Delete(ctx, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.GetSelf(ctx, middleware.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /users/me; role changes are ignored.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.UpdateSelf(ctx, middleware.PrincipalFrom(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe answers DELETE /users/me. Accounts are not self-deletable.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	c.Header("Allow", "GET, PATCH")
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method \"DELETE\" not allowed"})
}
