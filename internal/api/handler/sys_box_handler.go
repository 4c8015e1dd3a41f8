package handler

import (
	"Feedcore/internal/api/dto"
	"Feedcore/internal/api/middleware"
	"Feedcore/internal/pkg/response"
	"Feedcore/internal/service"

	"github.com/gin-gonic/gin"
)

type SysBoxHandler struct {
	sysBoxService service.SysBoxService
}

func NewSysBoxHandler(s service.SysBoxService) *SysBoxHandler {
	return &SysBoxHandler{
		sysBoxService: s,
	}
}

// GetNotificationList 获取通知列表
func (h *SysBoxHandler) GetNotificationList(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	params, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, hasNext, err := h.sysBoxService.ListNotifications(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		out = append(out, &dto.SysBoxDTO{
			ID:        m.ID.Hex(),
			SenderID:  m.SenderID,
			Type:      m.Type,
			TargetID:  m.TargetID,
			Content:   m.Content,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}
	response.Success(c, dto.ListDTO[*dto.SysBoxDTO]{List: out, HasNextPage: hasNext})
}

// GetUnreadCount 获取未读数
func (h *SysBoxHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)

	unread, err := h.sysBoxService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.SysBoxUnreadDTO{UnreadCount: unread})
}

// MarkRead 标记单条已读
func (h *SysBoxHandler) MarkRead(c *gin.Context) {
	var req dto.SysBoxReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64(middleware.CtxUserID)
	err := h.sysBoxService.MarkRead(c.Request.Context(), userID, req.MsgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// MarkAllRead 一键已读
func (h *SysBoxHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64(middleware.CtxUserID)
	err := h.sysBoxService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
