package transport

import (
	"github.com/ds124wfegd/adgen/internal/service"
)

type GenerateHandler struct {
	service        service.GenerationService
	maxUploadBytes int64
}

func NewGenerateHandler(service service.GenerationService, maxUploadBytes int64) *GenerateHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &GenerateHandler{service: service, maxUploadBytes: maxUploadBytes}
}

type DownloadHandler struct {
	service service.DownloadService
}

func NewDownloadHandler(service service.DownloadService) *DownloadHandler {
	return &DownloadHandler{service: service}
}

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}
