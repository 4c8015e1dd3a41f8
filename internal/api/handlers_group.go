package api

import (
	"Feedcore/internal/api/handler"
	"Feedcore/internal/pkg/redis"
	"Feedcore/internal/pkg/security"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例以及鉴权依赖
type HandlersGroup struct {
	JWT               *security.JWT
	Redis             *redis.Client
	NewsFeedHandler   *handler.NewsFeedHandler
	UserFollowHandler *handler.UserFollowHandler
	PostHandler       *handler.PostHandler
	PostActionHandler *handler.PostActionHandler
	SysBoxHandler     *handler.SysBoxHandler
}
