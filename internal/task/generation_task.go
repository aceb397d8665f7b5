package task

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/phrazzld/codegen-api/internal/domain"
)

// Generator produces code for a request.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// GenerationTask runs one generation request in the background.
type GenerationTask struct {
	id        uuid.UUID
	req       domain.GenerationRequest
	generator Generator
}

var (
	_ Task    = (*GenerationTask)(nil)
	_ Labeled = (*GenerationTask)(nil)
)

// NewGenerationTask wraps req in a task with a fresh ID.
func NewGenerationTask(generator Generator, req domain.GenerationRequest) *GenerationTask {
	return &GenerationTask{
		id:        uuid.New(),
		req:       req,
		generator: generator,
	}
}

// ID returns the task's unique identifier.
func (t *GenerationTask) ID() uuid.UUID { return t.id }

// Type returns TypeGeneration.
func (t *GenerationTask) Type() string { return TypeGeneration }

// Execute calls the generator. A cache_write failure yields the code along
// with the error.
func (t *GenerationTask) Execute(ctx context.Context) (string, error) {
	return t.generator.Generate(ctx, t.req)
}

// Labels describes the request without its prompt.
func (t *GenerationTask) Labels() map[string]string {
	return map[string]string{
		"provider":    t.req.Provider(),
		"language":    string(t.req.Language()),
		"model":       t.req.Model(),
		"temperature": strconv.FormatFloat(t.req.Temperature(), 'f', -1, 64),
	}
}
