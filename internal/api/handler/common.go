package handler

import (
	"Feedcore/internal/api/dto"
	"Feedcore/internal/pkg/pagination"
	"Feedcore/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

// parseUintParam 解析路径参数中的 ID
func parseUintParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}

// parsePageParams 解析 created_at__gt / created_at__lt
func parsePageParams(c *gin.Context) (pagination.Params, error) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return pagination.Params{}, err
	}
	return pagination.ParseParams(query.CreatedAtGT, query.CreatedAtLT)
}

// toListDTO 使用 copier 把模型列表转换为返回对象
func toListDTO[M any, D any](list []M, hasNext bool) (*dto.ListDTO[D], error) {
	out := make([]D, 0, len(list))
	if err := copier.Copy(&out, &list); err != nil {
		return nil, err
	}
	return &dto.ListDTO[D]{List: out, HasNextPage: hasNext}, nil
}
