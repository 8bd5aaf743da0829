package transport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Download handles GET /api/download?image=<url> and answers with a PNG attachment.
func (h *DownloadHandler) Download(c *gin.Context) {
	data, err := h.service.Fetch(c.Request.Context(), c.Query("image"))
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrMissingImage),
			errors.Is(err, entity.ErrInvalidURL),
			errors.Is(err, entity.ErrHostForbidden):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("Download failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	filename := fmt.Sprintf("adgen-%d.png", time.Now().UnixMilli())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "image/png", data)
}
