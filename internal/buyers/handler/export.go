package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/platform/httpkit"
)

// Export handles GET /buyers/export, streaming every matching lead as CSV
// using the same filters as the list endpoint.
func (h *Handler) Export(c *gin.Context) {
	var req transport.ListBuyersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	buyers, err := h.svc.Export(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	filename := fmt.Sprintf("buyer-leads-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(transport.ExportColumns); err != nil {
		return
	}
	for _, buyer := range buyers {
		if err := w.Write(exportRecord(buyer)); err != nil {
			return
		}
	}
	w.Flush()
}

func exportRecord(b transport.BuyerResponse) []string {
	return []string{
		b.FullName,
		deref(b.Email),
		b.Phone,
		b.City,
		b.PropertyType,
		deref(b.BHK),
		b.Purpose,
		formatBudget(b.BudgetMin),
		formatBudget(b.BudgetMax),
		b.Timeline,
		b.Source,
		deref(b.Notes),
		formatTags(b.Tags),
		b.Status,
		b.UpdatedAt.Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatBudget(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// formatTags renders the tag list as a JSON-array string so a round trip
// through export and import preserves it exactly.
func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	out, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(out)
}
