package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifelens/internal/model"
	"lifelens/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

type reportIDResponse struct {
	ReportID string `json:"reportId"`
}

func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.Named("ReportHandler"),
	}
}

// RegisterRoutes mounts the report API. limiter guards the endpoints that
// trigger generation and may be nil.
func (h *ReportHandler) RegisterRoutes(router gin.IRouter, limiter gin.HandlerFunc) {
	limited := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{limiter, next}
	}

	reports := router.Group("/api/report")
	{
		reports.POST("", limited(h.createReport)...)
		reports.GET("/:id", h.getReport)
		reports.POST("/:id/premium", limited(h.upgradeReport)...)
		reports.GET("/:id/layout", h.getLayout)
		reports.GET("/:id/pdf", h.getPDF)
	}
}

func (h *ReportHandler) createReport(c *gin.Context) {
	var input model.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	report, err := h.reports.CreateFreeReport(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportIDResponse{ReportID: report.ReportID})
}

func (h *ReportHandler) getReport(c *gin.Context) {
	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.NewReportView(report))
}

// upgradeReport is called once payment for the report has been confirmed.
func (h *ReportHandler) upgradeReport(c *gin.Context) {
	reportID := c.Param("id")
	report, err := h.reports.UpgradeToPremium(c.Request.Context(), reportID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.logger.Info("Premium report ready", zap.String("report_id", reportID))
	c.JSON(http.StatusOK, reportIDResponse{ReportID: report.ReportID})
}

func (h *ReportHandler) getLayout(c *gin.Context) {
	_, doc, err := h.reports.RenderDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ReportHandler) getPDF(c *gin.Context) {
	var buf bytes.Buffer
	fileName, err := h.reports.RenderPDF(c.Request.Context(), c.Param("id"), &buf)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
