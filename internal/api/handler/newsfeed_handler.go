package handler

import (
	"Feedcore/internal/api/dto"
	"Feedcore/internal/api/middleware"
	"Feedcore/internal/pkg/response"
	"Feedcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type NewsFeedHandler struct {
	newsFeedSvc service.NewsFeedService
	postSvc     service.PostService
}

func NewNewsFeedHandler(newsFeedSvc service.NewsFeedService, postSvc service.PostService) *NewsFeedHandler {
	return &NewsFeedHandler{
		newsFeedSvc: newsFeedSvc,
		postSvc:     postSvc,
	}
}

// ListNewsFeeds 当前用户的时间线，条目中的帖子通过帖子缓存解析
func (s *NewsFeedHandler) ListNewsFeeds(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	params, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	feeds, hasNext, err := s.newsFeedSvc.ListNewsFeeds(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	postIDs := make([]uint64, 0, len(feeds))
	for _, feed := range feeds {
		postIDs = append(postIDs, feed.GetPostID())
	}
	posts, err := s.postSvc.GetPostsByIds(c.Request.Context(), postIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	postMap := make(map[uint64]*dto.PostDTO, len(posts))
	for _, post := range posts {
		var postDTO dto.PostDTO
		if err = copier.Copy(&postDTO, post); err != nil {
			response.Error(c, err)
			return
		}
		postMap[post.ID] = &postDTO
	}

	list := make([]*dto.NewsFeedDTO, 0, len(feeds))
	for _, feed := range feeds {
		list = append(list, &dto.NewsFeedDTO{
			UserID:    feed.GetUserID(),
			PostID:    feed.GetPostID(),
			CreatedAt: feed.GetCreatedAt(),
			Post:      postMap[feed.GetPostID()],
		})
	}
	response.Success(c, dto.ListDTO[*dto.NewsFeedDTO]{List: list, HasNextPage: hasNext})
}
