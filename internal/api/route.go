package api

import (
	"Feedcore/internal/api/middleware"
	"Feedcore/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r)

	auth := middleware.AuthMiddleware(group.JWT, group.Redis)
	authOpt := middleware.AuthOptionalMiddleware(group.JWT, group.Redis)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		newsFeedGroup := apiGroup.Group("/newsfeeds")
		newsFeedGroup.Use(auth)
		{
			newsFeedGroup.GET("", group.NewsFeedHandler.ListNewsFeeds)
		}

		friendshipGroup := apiGroup.Group("/friendships")
		{
			friendshipGroup.GET("/:user_id/followers", group.UserFollowHandler.GetUserFollowers)
			friendshipGroup.GET("/:user_id/followers/count", group.UserFollowHandler.GetUserFollowersCount)
			friendshipGroup.GET("/:user_id/followings", group.UserFollowHandler.GetUserFollowings)
			friendshipGroup.GET("/:user_id/followings/count", group.UserFollowHandler.GetUserFollowingCount)

			authGroup := friendshipGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.GET("/isfollow/:following_id", group.UserFollowHandler.GetSomeoneIsFollowing)
				authGroup.POST("/follow/:following_id", group.UserFollowHandler.Follow)
				authGroup.DELETE("/follow/:following_id", group.UserFollowHandler.Unfollow)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("/detail/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/list/:user_id", group.PostHandler.GetPostByUserId)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.GET("/self", group.PostHandler.GetPostSelf)
			}
		}

		postActionGroup := apiGroup.Group("/post/action")
		{
			postActionGroup.GET("/comments/:post_id", group.PostActionHandler.GetComments)

			authOptGroup := postActionGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("/state/:post_id", group.PostActionHandler.GetPostActionState)
			}

			authActionGroup := postActionGroup.Group("")
			authActionGroup.Use(auth)
			{
				authActionGroup.POST("/likes/:post_id", group.PostActionHandler.LikePost)
				authActionGroup.POST("/comments", group.PostActionHandler.CreateComment)
				authActionGroup.DELETE("/comments/:comment_id", group.PostActionHandler.DeleteComment)
			}
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(auth)
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}
	}

	return r
}
