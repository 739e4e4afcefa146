package handlers

import (
	"errors"
	"net/http"

	"solarcoin-analytics/internal/analytics"
	"solarcoin-analytics/internal/api/models"
	"solarcoin-analytics/internal/config"
	"solarcoin-analytics/internal/ingest"
	"solarcoin-analytics/internal/model"
	"solarcoin-analytics/internal/store"

	"github.com/gin-gonic/gin"
)

// DatasetHandler owns the upload/list/delete surface of /datasets.
type DatasetHandler struct {
	store *store.Store
	cfg   *config.Config
}

func NewDatasetHandler(s *store.Store, cfg *config.Config) *DatasetHandler {
	return &DatasetHandler{store: s, cfg: cfg}
}

// Upload handles POST /api/v1/datasets. The body is multipart form data with
// the CSV under the "file" field. Ingestion is all-or-nothing: a file missing
// required columns is rejected whole, before any aggregation runs.
func (h *DatasetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MISSING_FILE",
				Message: "multipart field \"file\" is required",
			},
		})
		return
	}
	if max := h.cfg.Server.MaxUploadBytes; max > 0 && fileHeader.Size > max {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "FILE_TOO_LARGE",
				Message: "uploaded file exceeds the configured size limit",
			},
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CSV",
				Message: err.Error(),
			},
		})
		return
	}
	defer f.Close()

	txs, err := ingest.ReadTransactionsCSV(f)
	if err != nil {
		var verr *model.ValidationError
		code := "INVALID_CSV"
		if errors.As(err, &verr) {
			code = "MISSING_COLUMNS"
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	d := h.store.Put(fileHeader.Filename, txs)
	summary := analytics.Summarize(analytics.ComputeBalances(d.Transactions))

	c.JSON(http.StatusCreated, models.UploadResponse{
		Dataset: datasetResponse(d),
		Summary: summary,
	})
}

// List handles GET /api/v1/datasets.
func (h *DatasetHandler) List(c *gin.Context) {
	datasets := h.store.List()
	out := make([]models.DatasetResponse, len(datasets))
	for i, d := range datasets {
		out[i] = datasetResponse(d)
	}
	c.JSON(http.StatusOK, gin.H{"datasets": out, "count": len(out)})
}

// Delete handles DELETE /api/v1/datasets/:id.
func (h *DatasetHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASET_NOT_FOUND",
				Message: err.Error(),
			},
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func datasetResponse(d *store.Dataset) models.DatasetResponse {
	return models.DatasetResponse{
		ID:               d.ID,
		Name:             d.Name,
		UploadedAt:       d.UploadedAt,
		TransactionCount: len(d.Transactions),
	}
}
