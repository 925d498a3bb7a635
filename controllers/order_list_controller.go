package controllers

import (
	"fmt"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
)

// GET /user/orders
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("buyer_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := config.DB.Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}

	list := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		list = append(list, gin.H{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"item_name":    order.ItemName,
			"item_image":   order.ItemImage,
			"price":        fmt.Sprintf("%.2f", order.Price),
			"status":       order.Status,
			"created_at":   order.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.LogInfo("Retrieved %d orders for user ID: %d", len(orders), user.ID)
	utils.SendPaginatedResponse(c, list, pagination)
}
