package handler

import (
	"Feedcore/internal/api/dto"
	"Feedcore/internal/api/middleware"
	"Feedcore/internal/model"
	"Feedcore/internal/pkg/response"
	"Feedcore/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	userId, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	params, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	followers, hasNext, err := s.userFollowSvc.ListFollowers(c.Request.Context(), userId, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := toListDTO[*model.UserFollow, *dto.UserFollowDTO](followers, hasNext)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	userId, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	params, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	followings, hasNext, err := s.userFollowSvc.ListFollowings(c.Request.Context(), userId, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := toListDTO[*model.UserFollow, *dto.UserFollowDTO](followings, hasNext)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) GetUserFollowersCount(c *gin.Context) {
	userId, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := s.userFollowSvc.GetUserFollowerCount(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.CountDTO{Count: count})
}

func (s *UserFollowHandler) GetUserFollowingCount(c *gin.Context) {
	userId, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := s.userFollowSvc.GetUserFollowingCount(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.CountDTO{Count: count})
}

func (s *UserFollowHandler) GetSomeoneIsFollowing(c *gin.Context) {
	userId := c.GetUint64(middleware.CtxUserID)
	followingId, err := parseUintParam(c, "following_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	followed, err := s.userFollowSvc.HasFollowed(c.Request.Context(), userId, followingId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FollowStateDTO{Followed: followed})
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	userId := c.GetUint64(middleware.CtxUserID)
	followingId, err := parseUintParam(c, "following_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if userId == followingId {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userFollow, err := s.userFollowSvc.Follow(c.Request.Context(), userId, followingId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UserFollowDTO{
		FollowerID:  userFollow.FollowerID,
		FollowingID: userFollow.FollowingID,
		CreatedAt:   userFollow.CreatedAt,
	})
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	userId := c.GetUint64(middleware.CtxUserID)
	followingId, err := parseUintParam(c, "following_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted, err := s.userFollowSvc.Unfollow(c.Request.Context(), userId, followingId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UnfollowDTO{Deleted: deleted})
}
