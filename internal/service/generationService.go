package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SDXL img2img on Replicate. The identifier and the input below are fixed;
// users only influence prompt, style and size.
const (
	ModelIdentifier = "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"
	NegativePrompt  = "blurry, low quality, distorted, deformed, ugly, bad anatomy, watermark, text, logo, signature, amateur"

	InferenceSteps = 40
	GuidanceScale  = 7.5
	PromptStrength = 0.8
	Refiner        = "expert_ensemble_refiner"
	Scheduler      = "KarrasDPM"
	HighNoiseFrac  = 0.8
)

const publishTimeout = 10 * time.Second

func (s *generationService) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResult, error) {
	if req == nil || req.Prompt == "" || req.Image == nil {
		return nil, entity.ErrMissingInput
	}

	start := time.Now()

	image, mimeType, err := s.processor.Prepare(req.Image, req.ImageMIME)
	if err != nil {
		s.publish(req, "", err, start)
		return nil, err
	}

	if !KnownStyle(req.Style) {
		logrus.WithField("style", req.Style).Warn("unknown style, falling back to modern")
	}

	composed := Compose(req.Prompt, req.Style, req.Size)

	input := BuildInput(composed, DataURI(mimeType, image))

	logrus.WithFields(logrus.Fields{
		"request_id": req.RequestID,
		"size":       req.Size,
		"style":      req.Style,
		"height":     composed.Height,
	}).Infof("Generating image with prompt: %s", composed.Text)

	output, err := s.runner.Run(ctx, ModelIdentifier, input)
	if err != nil {
		logrus.WithError(err).WithField("request_id", req.RequestID).Error("Generation error")
		s.publish(req, "", err, start)
		return nil, err
	}

	imageURL, err := FirstOutput(output)
	if err != nil {
		logrus.WithError(err).WithField("request_id", req.RequestID).Error("Generation error")
		s.publish(req, "", err, start)
		return nil, err
	}

	logrus.WithField("request_id", req.RequestID).Infof("Generated image URL: %s", imageURL)
	s.publish(req, imageURL, nil, start)

	return &entity.GenerationResult{
		ImageURL: imageURL,
		Prompt:   composed.Text,
		Size:     req.Size,
		Style:    req.Style,
	}, nil
}

// BuildInput returns the model input for one generation.
func BuildInput(composed entity.ComposedPrompt, image string) map[string]any {
	return map[string]any{
		"image":               image,
		"prompt":              composed.Text,
		"negative_prompt":     NegativePrompt,
		"width":               composed.Width,
		"height":              composed.Height,
		"num_inference_steps": InferenceSteps,
		"guidance_scale":      GuidanceScale,
		"prompt_strength":     PromptStrength,
		"refine":              Refiner,
		"scheduler":           Scheduler,
		"high_noise_frac":     HighNoiseFrac,
	}
}

func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FirstOutput picks the image reference out of a model output: the first
// element of an array, or the value itself. The URL is not validated.
func FirstOutput(output any) (string, error) {
	if list, ok := output.([]any); ok {
		if len(list) == 0 {
			return "", entity.ErrEmptyOutput
		}
		output = list[0]
	}
	switch v := output.(type) {
	case nil:
		return "", entity.ErrEmptyOutput
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (s *generationService) publish(req *entity.GenerationRequest, imageURL string, genErr error, start time.Time) {
	if s.producer == nil {
		return
	}

	event := entity.GenerationEvent{
		ID:         uuid.New().String(),
		RequestID:  req.RequestID,
		Status:     entity.EventStatusSucceeded,
		Size:       req.Size,
		Style:      req.Style,
		Prompt:     req.Prompt,
		ImageURL:   imageURL,
		DurationMs: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if genErr != nil {
		event.Status = entity.EventStatusFailed
		event.Error = genErr.Error()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.producer.SendMessage(ctx, event.ID, event); err != nil {
			logrus.WithError(err).WithField("event", event.ID).Warn("failed to publish generation event")
		}
	}()
}
