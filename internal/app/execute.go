package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/imagej/ijc/internal/logger"
)

// Executor runs modules and uploads their file inputs.
type Executor interface {
	Uploader
	ExecuteModuleRaw(ctx context.Context, rawID string, payload map[string]any) ([]byte, error)
	ObjectsURL() string
}

// Submission is a filled-in dialog ready to run.
type Submission struct {
	Module   *ModuleDetails
	Requests []InputRequest
	Raw      RawOverrides
}

// SubmitOptions tunes a submission.
type SubmitOptions struct {
	// Format is the conversion format for object output links.
	Format string
	// Open opens file inputs; nil uses the local filesystem.
	Open FileOpener
}

// Submit runs a submission as two phases: build the payload and resolve
// every upload, then execute once with the fully resolved payload. Nothing
// is executed if either part of the first phase fails.
func Submit(ctx context.Context, ex Executor, sub Submission, opts SubmitOptions) (*ExecutionResult, error) {
	if sub.Module == nil {
		return nil, &InvalidDescriptorError{Reason: "no module"}
	}
	submissionID := uuid.NewString()
	log := logger.With("submission", submissionID, "module", sub.Module.Identifier)

	payload, err := BuildPayload(sub.Requests, sub.Raw)
	if err != nil {
		log.Warn("payload rejected", "err", err)
		return nil, err
	}

	uploaded, err := ResolveUploads(ctx, ex, sub.Requests, opts.Open)
	if err != nil {
		return nil, err
	}
	for name, id := range uploaded {
		payload[name] = id
	}
	log.Debug("payload resolved", "params", len(payload), "uploads", len(uploaded))

	result, err := execute(ctx, ex, sub.Module, payload, opts.Format)
	if err != nil {
		log.Warn("execution failed", "err", err)
		return nil, err
	}
	result.SubmissionID = submissionID
	if len(uploaded) > 0 {
		result.Uploaded = uploaded
	}
	log.Info("executed", "outputs", len(result.Outputs), "ms", result.DurationMs)
	return result, nil
}

// ExecuteDirect runs a module without building requests. It is used for
// modules that declare no inputs; the body is JSON null.
func ExecuteDirect(ctx context.Context, ex Executor, module *ModuleDetails, format string) (*ExecutionResult, error) {
	submissionID := uuid.NewString()
	result, err := execute(ctx, ex, module, nil, format)
	if err != nil {
		logger.Warn("execution failed", "submission", submissionID, "module", module.Identifier, "err", err)
		return nil, err
	}
	result.SubmissionID = submissionID
	return result, nil
}

func execute(ctx context.Context, ex Executor, module *ModuleDetails, payload Payload, format string) (*ExecutionResult, error) {
	start := time.Now()
	raw, err := ex.ExecuteModuleRaw(ctx, module.Identifier, payload)
	if err != nil {
		return nil, newExecutionError(module.Identifier, err)
	}
	outputs, err := decodeOutputs(raw)
	if err != nil {
		return nil, &ExecutionError{Module: module.Identifier, Message: err.Error(), Err: err}
	}
	return &ExecutionResult{
		Module:     module.ID(),
		Outputs:    ClassifyOutputs(ex.ObjectsURL(), format, outputs, module.Outputs),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// decodeOutputs decodes the output map keeping numbers exact. An empty or
// null body means no outputs.
func decodeOutputs(raw []byte) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var outputs map[string]any
	if err := dec.Decode(&outputs); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	if outputs == nil {
		outputs = map[string]any{}
	}
	return outputs, nil
}
