package handler

import (
	"Feedcore/internal/api/dto"
	"Feedcore/internal/api/middleware"
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/response"
	"Feedcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// CreatePost 发帖，扇出在后台完成
func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)

	var req dto.PostCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.successPost(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.GetPostThroughCache(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.successPost(c, post)
}

// GetPostByUserId 用户的帖子列表
func (s *PostHandler) GetPostByUserId(c *gin.Context) {
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	s.listUserPosts(c, userID)
}

func (s *PostHandler) GetPostSelf(c *gin.Context) {
	s.listUserPosts(c, c.GetUint64(middleware.CtxUserID))
}

func (s *PostHandler) listUserPosts(c *gin.Context, userID uint64) {
	params, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	posts, hasNext, err := s.postSvc.ListUserPosts(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := toListDTO[*model.Post, *dto.PostDTO](posts, hasNext)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *PostHandler) successPost(c *gin.Context, post *model.Post) {
	var postDTO dto.PostDTO
	if err := copier.Copy(&postDTO, post); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, postDTO)
}
