package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/ds124wfegd/adgen/internal/pkg/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu         sync.Mutex
	calls      int
	identifier string
	input      map[string]any
	output     any
	err        error
}

func (r *fakeRunner) Run(ctx context.Context, identifier string, input map[string]any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.identifier = identifier
	r.input = input
	return r.output, r.err
}

type fakeProducer struct {
	events chan entity.GenerationEvent
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan entity.GenerationEvent, 4)}
}

func (p *fakeProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	p.events <- message.(entity.GenerationEvent)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) next(t *testing.T) entity.GenerationEvent {
	t.Helper()
	select {
	case event := <-p.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("generation event was not published")
		return entity.GenerationEvent{}
	}
}

func newRequest() *entity.GenerationRequest {
	return &entity.GenerationRequest{
		Prompt:    "red sneaker on marble",
		Size:      entity.SizePortrait,
		Style:     entity.StyleLuxury,
		Image:     []byte{0xff, 0xd8, 0xff, 0xe0},
		ImageMIME: "image/jpeg",
		RequestID: "req-1",
	}
}

func TestGenerateSuccess(t *testing.T) {
	tests := []struct {
		name   string
		output any
		want   string
	}{
		{
			name:   "array output takes first element",
			output: []any{"https://replicate.delivery/a.png", "https://replicate.delivery/b.png"},
			want:   "https://replicate.delivery/a.png",
		},
		{
			name:   "single output is used as is",
			output: "https://replicate.delivery/only.png",
			want:   "https://replicate.delivery/only.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: tt.output}
			producer := newFakeProducer()
			svc := NewGenerationService(runner, processor.NewImageProcessor(0), producer)

			result, err := svc.Generate(context.Background(), newRequest())
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.ImageURL)
			assert.Equal(t, entity.SizePortrait, result.Size)
			assert.Equal(t, entity.StyleLuxury, result.Style)
			assert.Equal(t, ComposePrompt("red sneaker on marble", entity.StyleLuxury, entity.SizePortrait), result.Prompt)

			event := producer.next(t)
			assert.Equal(t, entity.EventStatusSucceeded, event.Status)
			assert.Equal(t, tt.want, event.ImageURL)
			assert.Equal(t, "req-1", event.RequestID)
			assert.NotEmpty(t, event.ID)
		})
	}
}

func TestGenerateModelInput(t *testing.T) {
	runner := &fakeRunner{output: []any{"https://replicate.delivery/a.png"}}
	svc := NewGenerationService(runner, processor.NewImageProcessor(0), nil)

	_, err := svc.Generate(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, ModelIdentifier, runner.identifier)
	assert.Equal(t, "data:image/jpeg;base64,/9j/4A==", runner.input["image"])
	assert.Equal(t, ComposePrompt("red sneaker on marble", entity.StyleLuxury, entity.SizePortrait), runner.input["prompt"])
	assert.Equal(t, NegativePrompt, runner.input["negative_prompt"])
	assert.Equal(t, 1024, runner.input["width"])
	assert.Equal(t, 1280, runner.input["height"])
	assert.Equal(t, 40, runner.input["num_inference_steps"])
	assert.Equal(t, 7.5, runner.input["guidance_scale"])
	assert.Equal(t, 0.8, runner.input["prompt_strength"])
	assert.Equal(t, "expert_ensemble_refiner", runner.input["refine"])
	assert.Equal(t, "KarrasDPM", runner.input["scheduler"])
	assert.Equal(t, 0.8, runner.input["high_noise_frac"])
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *entity.GenerationRequest
		output  any
		runErr  error
		wantErr error
		calls   int
	}{
		{
			name:    "missing prompt",
			req:     &entity.GenerationRequest{Image: []byte{1}},
			wantErr: entity.ErrMissingInput,
		},
		{
			name:    "missing image",
			req:     &entity.GenerationRequest{Prompt: "shoe"},
			wantErr: entity.ErrMissingInput,
		},
		{
			name:    "runner error is passed through",
			req:     newRequest(),
			runErr:  errors.New("replicate: Invalid token (status 401)"),
			wantErr: nil,
			calls:   1,
		},
		{
			name:    "empty array output",
			req:     newRequest(),
			output:  []any{},
			wantErr: entity.ErrEmptyOutput,
			calls:   1,
		},
		{
			name:    "null output",
			req:     newRequest(),
			output:  nil,
			wantErr: entity.ErrEmptyOutput,
			calls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: tt.output, err: tt.runErr}
			svc := NewGenerationService(runner, processor.NewImageProcessor(0), nil)

			result, err := svc.Generate(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.calls, runner.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Equal(t, tt.runErr, err)
			}
		})
	}
}

func TestGenerateFailurePublishesEvent(t *testing.T) {
	runner := &fakeRunner{err: errors.New("network down")}
	producer := newFakeProducer()
	svc := NewGenerationService(runner, processor.NewImageProcessor(0), producer)

	_, err := svc.Generate(context.Background(), newRequest())
	require.Error(t, err)

	event := producer.next(t)
	assert.Equal(t, entity.EventStatusFailed, event.Status)
	assert.Equal(t, "network down", event.Error)
	assert.Empty(t, event.ImageURL)
}

func TestFirstOutput(t *testing.T) {
	got, err := FirstOutput([]any{42.0})
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = FirstOutput("https://example.com/x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.png", got)

	_, err = FirstOutput([]any{nil})
	assert.ErrorIs(t, err, entity.ErrEmptyOutput)
}
