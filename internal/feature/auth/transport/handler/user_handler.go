package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/transport/http/dto"
	"ecommerce_backend/internal/feature/auth/usecase"
	jwtmw "ecommerce_backend/internal/platform/jwt"
)

// UserUsecase はプロフィール参照・更新とユーザー一覧を定義します。
type UserUsecase interface {
	Me(ctx context.Context, id uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uint, firstName, lastName string) (*entity.User, error)
	List(ctx context.Context, page, limit int) ([]entity.User, error)
}

// UserHandler は /api/user 配下を処理します。すべて AuthRequired の後に登録します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Me は GET /api/user/me を処理します。
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), c.GetUint(jwtmw.ContextUserID))
	if err != nil {
		writeError(c, "get profile", err, "Your request could not be processed. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserRes(user)})
}

// Update は PUT /api/user を処理します。
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileReq
	if !bindJSON(c, "update profile", &req) {
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), c.GetUint(jwtmw.ContextUserID), req.FirstName, req.LastName)
	if err != nil {
		writeError(c, "update profile", err, "Your request could not be processed. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Your profile is successfully updated!", "user": dto.NewUserRes(user)})
}

// List は GET /api/user?page=&limit= を処理します（管理者のみ）。
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, limit = usecase.Paginate(page, limit)

	users, err := h.users.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, "list users", err, "Your request could not be processed. Please try again.")
		return
	}
	res := dto.UserListRes{Users: make([]dto.UserRes, 0, len(users)), Page: page, Limit: limit}
	for i := range users {
		res.Users = append(res.Users, dto.NewUserRes(&users[i]))
	}
	c.JSON(http.StatusOK, res)
}
