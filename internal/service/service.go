package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/ds124wfegd/adgen/internal/pkg/kafka"
	"github.com/ds124wfegd/adgen/internal/pkg/processor"
	"github.com/ds124wfegd/adgen/internal/pkg/replicate"
)

type GenerationService interface {
	Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResult, error)
}

type DownloadService interface {
	// Fetch downloads imageURL from an allowed host and returns it as PNG.
	Fetch(ctx context.Context, imageURL string) ([]byte, error)
}

type generationService struct {
	runner    replicate.Runner
	processor processor.ImageProcessor
	producer  kafka.Producer
}

func NewGenerationService(runner replicate.Runner, processor processor.ImageProcessor, producer kafka.Producer) GenerationService {
	return &generationService{
		runner:    runner,
		processor: processor,
		producer:  producer,
	}
}

type downloadService struct {
	httpClient   *http.Client
	processor    processor.ImageProcessor
	allowedHosts []string
}

func NewDownloadService(httpClient *http.Client, processor processor.ImageProcessor, allowedHosts []string) DownloadService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	// redirects must stay on allowed hosts too
	guarded := *httpClient
	guarded.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		if !HostAllowed(req.URL.Hostname(), allowedHosts) {
			return entity.ErrHostForbidden
		}
		return nil
	}
	return &downloadService{
		httpClient:   &guarded,
		processor:    processor,
		allowedHosts: allowedHosts,
	}
}
