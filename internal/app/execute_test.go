package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/imagej/ijc/internal/server"
)

type fakeExecutor struct {
	fakeUploader

	mu       sync.Mutex
	calls    int
	payloads []map[string]any
	response string
	err      error
}

func (f *fakeExecutor) ExecuteModuleRaw(ctx context.Context, rawID string, payload map[string]any) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.response), nil
}

func (f *fakeExecutor) ObjectsURL() string { return "http://server/objects" }

func cropModule() *ModuleDetails {
	return &ModuleDetails{
		Identifier: "command:net.imagej.ops.Crop",
		Inputs: []ParameterDescriptor{
			{Name: "file", GenericType: "class java.io.File"},
			{Name: "n", GenericType: "int", DefaultValue: json.Number("2")},
		},
		Outputs: []ParameterDescriptor{
			{Name: "out", Label: "Result", GenericType: "interface net.imagej.Dataset"},
		},
	}
}

func TestSubmit_UploadsThenExecutes(t *testing.T) {
	ex := &fakeExecutor{response: `{"out": "object:res", "count": 3}`}
	mod := cropModule()
	reqs, err := BuildRequests(mod.Inputs, BuildContext{})
	if err != nil {
		t.Fatalf("BuildRequests: %v", err)
	}
	reqs[0].File.Path = "/in.tif"

	result, err := Submit(context.Background(), ex, Submission{Module: mod, Requests: reqs},
		SubmitOptions{Open: memOpener(map[string]string{"/in.tif": "up"})})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if ex.calls != 1 {
		t.Fatalf("expected one execution, got %d", ex.calls)
	}
	sent := ex.payloads[0]
	if sent["file"] != "object:up" || sent["n"] != json.Number("2") {
		t.Errorf("payload not fully resolved: %#v", sent)
	}
	if result.SubmissionID == "" {
		t.Error("expected a submission id")
	}
	if result.Uploaded["file"] != "object:up" {
		t.Errorf("uploaded = %v", result.Uploaded)
	}
	if len(result.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(result.Outputs))
	}
	out := result.Outputs[0]
	if out.Name != "out" || out.Kind != OutputObject || out.ConvertURL != "http://server/objects/object:res/png" {
		t.Errorf("unexpected first output: %+v", out)
	}
	if result.Outputs[1].Value != json.Number("3") {
		t.Errorf("count should keep exact number, got %#v", result.Outputs[1].Value)
	}
}

func TestSubmit_UploadFailureSkipsExecution(t *testing.T) {
	ex := &fakeExecutor{response: `{}`}
	ex.fail = map[string]error{"/in.tif": errors.New("refused")}
	mod := cropModule()
	reqs, _ := BuildRequests(mod.Inputs, BuildContext{})
	reqs[0].File.Path = "/in.tif"

	_, err := Submit(context.Background(), ex, Submission{Module: mod, Requests: reqs},
		SubmitOptions{Open: memOpener(map[string]string{"/in.tif": "x"})})
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if ex.calls != 0 {
		t.Errorf("execution must not run after a failed upload, got %d calls", ex.calls)
	}
}

func TestSubmit_MalformedPayloadSkipsUploads(t *testing.T) {
	ex := &fakeExecutor{}
	mod := cropModule()
	reqs, _ := BuildRequests(mod.Inputs, BuildContext{})
	reqs[0].File.Path = "/in.tif"

	_, err := Submit(context.Background(), ex, Submission{Module: mod, Requests: reqs, Raw: RawOverrides{"n": "{"}},
		SubmitOptions{Open: memOpener(map[string]string{"/in.tif": "x"})})
	var mp *MalformedPayloadError
	if !errors.As(err, &mp) {
		t.Fatalf("expected MalformedPayloadError, got %v", err)
	}
	if len(ex.uploaded) != 0 || ex.calls != 0 {
		t.Errorf("nothing should be sent, uploads=%v calls=%d", ex.uploaded, ex.calls)
	}
}

func TestSubmit_ServerErrorIsVerbatim(t *testing.T) {
	ex := &fakeExecutor{err: &server.HTTPError{StatusCode: 500, Status: "500 Internal Server Error", Body: "Missing input: n"}}
	mod := cropModule()
	reqs, _ := BuildRequests(mod.Inputs, BuildContext{})

	_, err := Submit(context.Background(), ex, Submission{Module: mod, Requests: reqs}, SubmitOptions{})
	var ee *ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if ee.Status != 500 || ee.Message != "Missing input: n" {
		t.Errorf("unexpected execution error: %+v", ee)
	}
	if !IsRecoverable(err) {
		t.Error("execution errors are recoverable")
	}
}

func TestExecuteDirect_SendsNull(t *testing.T) {
	ex := &fakeExecutor{response: ``}
	mod := &ModuleDetails{Identifier: "command:org.example.NoArgs"}

	result, err := ExecuteDirect(context.Background(), ex, mod, "")
	if err != nil {
		t.Fatalf("ExecuteDirect: %v", err)
	}
	if ex.payloads[0] != nil {
		t.Errorf("expected nil payload, got %#v", ex.payloads[0])
	}
	if len(result.Outputs) != 0 {
		t.Errorf("expected no outputs, got %v", result.Outputs)
	}
}
