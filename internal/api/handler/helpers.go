package handler

import (
	"strconv"

	"comment-go/internal/api/middleware"
	"comment-go/internal/service"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// currentCustomer 已登录返回客户，匿名访客返回 nil
func currentCustomer(c *gin.Context) *service.Customer {
	customerID, ok := middleware.GetCurrentCustomerID(c)
	if !ok {
		return nil
	}
	return &service.Customer{ID: customerID}
}
