package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"rma-system/internal/dto"
	"rma-system/internal/services"
	"rma-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetRMAReport returns the filtered RMA list as JSON, or as an xlsx workbook
// when format=xlsx is requested.
func (c *ReportController) GetRMAReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		// exports ignore pagination and dump everything that matches
		filter.Limit = 100000
		filter.Offset = 0
		filter.Page = 0
	}

	data, total, err := c.reportService.GetRMAReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}
	return utils.SuccessResponse(ctx, data, "report generated", http.StatusOK, total)
}

var reportHeaders = []string{
	"RMA Number", "ERP Code", "Product", "Serial Number", "Customer", "Customer Email",
	"Status", "Issue", "Technician", "Sent Date", "Estimated Cost", "External RMA", "Created",
}

func rowToSlice(item dto.RMADTO) []interface{} {
	var technician, sentDate, externalRMA string
	var estimatedCost interface{}
	if item.RepairInfo != nil {
		technician = item.RepairInfo.Technician
		sentDate = item.RepairInfo.SentDate
		externalRMA = item.RepairInfo.ExternalRMANumber
		estimatedCost = item.RepairInfo.EstimatedCost
	}

	return []interface{}{
		item.RMANumber, item.ErpCode, item.ProductName, item.SerialNumber,
		item.CustomerName, item.CustomerEmail, item.Status, item.IssueDescription,
		technician, sentDate, estimatedCost, externalRMA, item.DateCreated,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.RMADTO) error {
	f := excelize.NewFile()
	sheet := "RMA Report"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "B", 18)
	f.SetColWidth(sheet, "C", "F", 25)
	f.SetColWidth(sheet, "H", "H", 45)
	f.SetColWidth(sheet, "I", "M", 18)

	fileName := fmt.Sprintf("rma_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
