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

type PostActionHandler struct {
	postActionSvc service.PostActionService
}

func NewPostActionHandler(postActionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		postActionSvc: postActionSvc,
	}
}

// LikePost action 为 1 点赞，为 2 取消点赞
func (s *PostActionHandler) LikePost(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PostLikeReq
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if req.Action == 1 {
		err = s.postActionSvc.LikePost(c.Request.Context(), userID, postID)
	} else {
		err = s.postActionSvc.CancelLikePost(c.Request.Context(), userID, postID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetPostActionState 计数与当前用户的点赞状态
func (s *PostActionHandler) GetPostActionState(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()

	likes, err := s.postActionSvc.GetPostLikeCount(ctx, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	comments, err := s.postActionSvc.GetPostCommentCount(ctx, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	liked, err := s.postActionSvc.IsLiked(ctx, userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.PostActionStateDTO{
		LikeCount:    likes,
		CommentCount: comments,
		IsLiked:      liked,
	})
}

func (s *PostActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.postActionSvc.CreateComment(c.Request.Context(), userID, req.PostID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	var commentDTO dto.CommentDTO
	if err = copier.Copy(&commentDTO, comment); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, commentDTO)
}

func (s *PostActionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	commentID, err := parseUintParam(c, "comment_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.postActionSvc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) GetComments(c *gin.Context) {
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	params, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	comments, hasNext, err := s.postActionSvc.ListComments(c.Request.Context(), postID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := toListDTO[*model.PostComment, *dto.CommentDTO](comments, hasNext)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
