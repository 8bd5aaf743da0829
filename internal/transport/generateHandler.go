package transport

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/ds124wfegd/adgen/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

// Generate handles POST /api/generate with multipart fields prompt, image,
// size and style.
func (h *GenerateHandler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrInvalidForm.Error()})
		return
	}

	prompt := c.PostForm("prompt")
	file, err := c.FormFile("image")
	if prompt == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrMissingInput.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}

	req := &entity.GenerationRequest{
		Prompt:    prompt,
		Size:      c.PostForm("size"),
		Style:     c.PostForm("style"),
		Image:     data,
		ImageMIME: detectMIME(file.Header.Get("Content-Type"), data),
		ImageName: file.Filename,
		RequestID: middleware.GetRequestID(c),
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, entity.ErrMissingInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

func errorMessage(err error) string {
	if err == nil {
		return entity.FallbackGenerateError
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return entity.FallbackGenerateError
}

// detectMIME prefers the part's declared type and sniffs the bytes otherwise.
func detectMIME(declared string, data []byte) string {
	mimeType := stripParams(declared)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = stripParams(http.DetectContentType(data))
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}
	return mimeType
}

func stripParams(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(mimeType)
}
