package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// GET /admin/sales/export?period=day|week|month
//
// Admin: download completed trades as an Excel report
func DownloadSalesReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadSalesReportExcel called")

	period := c.DefaultQuery("period", "day")
	now := time.Now()
	var startDate, endDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var orders []models.Order
	if err := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("Buyer").
		Preload("Store").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for sales export: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d orders for Excel report", len(orders))

	var totalRevenue float64
	buyerSet := make(map[uint]bool)
	for _, order := range orders {
		totalRevenue += order.Price
		buyerSet[order.BuyerID] = true
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create report", err.Error())
		return
	}

	summary := sheet.AddRow()
	summary.AddCell().Value = "Period"
	summary.AddCell().Value = period
	summary = sheet.AddRow()
	summary.AddCell().Value = "Total Trades"
	summary.AddCell().Value = fmt.Sprintf("%d", len(orders))
	summary = sheet.AddRow()
	summary.AddCell().Value = "Total Revenue"
	summary.AddCell().Value = fmt.Sprintf("%.2f", totalRevenue)
	summary = sheet.AddRow()
	summary.AddCell().Value = "Unique Buyers"
	summary.AddCell().Value = fmt.Sprintf("%d", len(buyerSet))
	sheet.AddRow()

	header := sheet.AddRow()
	for _, title := range []string{"Order Number", "Date", "Item", "Buyer", "Store", "Price", "Status"} {
		header.AddCell().Value = title
	}
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().Value = order.OrderNumber
		row.AddCell().Value = order.CreatedAt.Format("2006-01-02 15:04:05")
		row.AddCell().Value = order.ItemName
		row.AddCell().Value = order.Buyer.Email
		row.AddCell().Value = order.Store.Name
		row.AddCell().Value = fmt.Sprintf("%.2f", order.Price)
		row.AddCell().Value = order.Status
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write Excel report: %v", err)
		utils.InternalServerError(c, "Failed to write report", err.Error())
		return
	}

	filename := fmt.Sprintf("sales-report-%s-%s.xlsx", period, now.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
