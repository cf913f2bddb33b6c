package http

// SubmitExport godoc
// @Summary Submit export job
// @Description Queue an asynchronous export of inventory data; returns immediately with a pending job (Admin only)
// @Tags Exports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{format=string,data_types=array,from=string,to=string} true "Export request"
// @Success 202 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/exports [post]
func (h *ExportHandler) SubmitExportDoc() {}

// ListExports godoc
// @Summary List export jobs
// @Description Export job history, most recent first (Admin only)
// @Tags Exports
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/exports [get]
func (h *ExportHandler) ListExportsDoc() {}

// GetExport godoc
// @Summary Get export job
// @Description Poll one export job for status, progress and the download URL once completed (Admin only)
// @Tags Exports
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/exports/{id} [get]
func (h *ExportHandler) GetExportDoc() {}

// CancelExport godoc
// @Summary Cancel export job
// @Description Cancel a pending or running export job; cancelling a finished job is a no-op (Admin only)
// @Tags Exports
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/exports/{id}/cancel [post]
func (h *ExportHandler) CancelExportDoc() {}
