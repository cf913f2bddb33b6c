package http

// ListAlerts godoc
// @Summary Low stock alert feed
// @Description List items at or below their stock threshold, classified into severity tiers and sorted by urgency
// @Tags Alerts
// @Produce json
// @Param threshold_multiplier query number false "Scales each item's min stock level (default 1.0)"
// @Param category_ids query string false "Comma-separated category IDs; descendants are included"
// @Param business_type query string false "Scope to one business type"
// @Param levels query string false "Comma-separated severity tiers" Enums(out_of_stock, critical, low, warning)
// @Param sort_by query string false "Sort key" Enums(urgency, name, shortage, value)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/alerts/low-stock [get]
func (h *AlertHandler) ListAlertsDoc() {}
