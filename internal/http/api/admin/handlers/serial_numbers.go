package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/PrizeCheck/internal/campaign"
	httpx "github.com/router-for-me/PrizeCheck/internal/http"
	log "github.com/sirupsen/logrus"
)

// CSVArchiver stores a copy of an export.
type CSVArchiver interface {
	UploadCSV(ctx context.Context, body []byte, at time.Time) (string, error)
}

// SerialNumberHandler handles admin serial-number endpoints.
type SerialNumberHandler struct {
	svc      *campaign.Service
	archiver CSVArchiver // Optional; nil disables archiving.
}

// NewSerialNumberHandler constructs a SerialNumberHandler.
func NewSerialNumberHandler(svc *campaign.Service, archiver CSVArchiver) *SerialNumberHandler {
	return &SerialNumberHandler{svc: svc, archiver: archiver}
}

// List returns serial numbers filtered by query parameters.
func (h *SerialNumberHandler) List(c *gin.Context) {
	filter := campaign.SerialFilter{
		Query:   strings.TrimSpace(c.Query("q")),
		PrizeID: strings.TrimSpace(c.Query("prize_id")),
		BatchID: strings.TrimSpace(c.Query("batch_id")),
		Sort:    strings.TrimSpace(c.Query("sort")),
		Desc:    strings.EqualFold(strings.TrimSpace(c.Query("order")), "desc"),
	}
	switch strings.TrimSpace(c.Query("claimed")) {
	case "true", "1":
		claimed := true
		filter.Claimed = &claimed
	case "false", "0":
		claimed := false
		filter.Claimed = &claimed
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, errPage := strconv.Atoi(raw)
		if errPage != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		filter.Page = page
	}
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		size, errSize := strconv.Atoi(raw)
		if errSize != nil || size < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
			return
		}
		filter.PageSize = size
	}

	page, errList := h.svc.ListSerials(c.Request.Context(), filter)
	if errList != nil {
		httpx.RespondError(c, errList, "list serial numbers")
		return
	}
	out := make([]gin.H, 0, len(page.Items))
	for i := range page.Items {
		out = append(out, formatSerial(&page.Items[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"serial_numbers": out,
		"total":          page.Total,
		"page":           page.Page,
		"page_size":      page.PageSize,
	})
}

// Get returns one serial number.
func (h *SerialNumberHandler) Get(c *gin.Context) {
	serial, errGet := h.svc.GetSerial(c.Request.Context(), c.Param("id"))
	if errGet != nil {
		httpx.RespondError(c, errGet, "get serial number")
		return
	}
	c.JSON(http.StatusOK, formatSerial(serial))
}

// Update applies an admin edit to a serial number.
func (h *SerialNumberHandler) Update(c *gin.Context) {
	var body campaign.SerialPatch
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	serial, errUpdate := h.svc.UpdateSerial(c.Request.Context(), c.Param("id"), body)
	if errUpdate != nil {
		httpx.RespondError(c, errUpdate, "update serial number")
		return
	}
	c.JSON(http.StatusOK, formatSerial(serial))
}

// Delete removes a serial number.
func (h *SerialNumberHandler) Delete(c *gin.Context) {
	if errDelete := h.svc.DeleteSerial(c.Request.Context(), c.Param("id")); errDelete != nil {
		httpx.RespondError(c, errDelete, "delete serial number")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// generateRequest captures the payload for batch generation.
type generateRequest struct {
	Count int `json:"count"` // Number of serial numbers to create.
}

// Generate creates a batch of serial numbers.
func (h *SerialNumberHandler) Generate(c *gin.Context) {
	var body generateRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, errGenerate := h.svc.Generate(c.Request.Context(), campaign.GenerateRequest{
		Count:     body.Count,
		CreatedBy: httpx.AdminUsername(c),
	})
	if errGenerate != nil {
		httpx.RespondError(c, errGenerate, "generate serial numbers")
		return
	}
	out := make([]gin.H, 0, len(res.Serials))
	for i := range res.Serials {
		out = append(out, formatSerial(&res.Serials[i]))
	}
	c.JSON(http.StatusCreated, gin.H{
		"batch":          formatBatch(&res.Batch),
		"serial_numbers": out,
	})
}

// Export downloads the selected serial numbers (all when no ids are given) as CSV.
func (h *SerialNumberHandler) Export(c *gin.Context) {
	ids := exportIDs(c)
	rows, errExport := h.svc.ExportSerials(c.Request.Context(), ids)
	if errExport != nil {
		httpx.RespondError(c, errExport, "export serial numbers")
		return
	}

	var buf bytes.Buffer
	if errWrite := campaign.WriteCSV(&buf, rows); errWrite != nil {
		httpx.RespondError(c, errWrite, "export serial numbers")
		return
	}

	now := time.Now().UTC()
	if h.archiver != nil {
		key, errUpload := h.archiver.UploadCSV(c.Request.Context(), buf.Bytes(), now)
		if errUpload != nil {
			log.WithError(errUpload).Warn("export archive upload failed")
		} else {
			c.Header("X-Archive-Key", key)
		}
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(campaign.ExportFilename(now)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// exportIDs accepts ids=a,b and repeated ids parameters.
func exportIDs(c *gin.Context) []string {
	var ids []string
	for _, raw := range c.QueryArray("ids") {
		for _, part := range strings.Split(raw, ",") {
			if id := strings.TrimSpace(part); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Batches lists generation batches.
func (h *SerialNumberHandler) Batches(c *gin.Context) {
	rows, errList := h.svc.ListBatches(c.Request.Context())
	if errList != nil {
		httpx.RespondError(c, errList, "list batches")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, formatBatch(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"batches": out})
}
