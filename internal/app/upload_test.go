package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type fakeUploader struct {
	mu       sync.Mutex
	uploaded map[string]string
	fail     map[string]error
	delay    map[string]time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeUploader) UploadObject(ctx context.Context, filename string, r io.Reader, typeHint string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxSeen.Load()
		if n <= cur || f.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	if d := f.delay[filename]; d > 0 {
		time.Sleep(d)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := f.fail[filename]; err != nil {
		return "", err
	}
	body, _ := io.ReadAll(r)
	id := "object:" + string(body)
	f.mu.Lock()
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}
	f.uploaded[filename] = id
	f.mu.Unlock()
	return id, nil
}

func memOpener(files map[string]string) FileOpener {
	return func(path string) (io.ReadCloser, error) {
		content, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("open %s: no such file", path)
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func fileRequests(paths map[string]string) []InputRequest {
	var reqs []InputRequest
	for name, path := range paths {
		reqs = append(reqs, InputRequest{Kind: RequestFile, Name: name, File: &FileRequest{Path: path}})
	}
	return reqs
}

func TestResolveUploads_AllSucceed(t *testing.T) {
	defer goleak.VerifyNone(t)

	up := &fakeUploader{delay: map[string]time.Duration{"/a": 20 * time.Millisecond, "/b": 20 * time.Millisecond}}
	reqs := fileRequests(map[string]string{"first": "/a", "second": "/b"})
	reqs = append(reqs, InputRequest{Kind: RequestFile, Name: "unset", File: &FileRequest{}})

	ids, err := ResolveUploads(context.Background(), up, reqs, memOpener(map[string]string{"/a": "A", "/b": "B"}))
	if err != nil {
		t.Fatalf("ResolveUploads: %v", err)
	}
	if len(ids) != 2 || ids["first"] != "object:A" || ids["second"] != "object:B" {
		t.Errorf("unexpected ids: %v", ids)
	}
	if up.maxSeen.Load() < 2 {
		t.Errorf("uploads should run concurrently, max in flight = %d", up.maxSeen.Load())
	}
}

func TestResolveUploads_FailureWaitsForAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("disk full")
	up := &fakeUploader{
		fail:  map[string]error{"/bad": boom},
		delay: map[string]time.Duration{"/slow": 50 * time.Millisecond},
	}
	reqs := fileRequests(map[string]string{"bad": "/bad", "slow": "/slow"})

	ids, err := ResolveUploads(context.Background(), up, reqs, memOpener(map[string]string{"/bad": "X", "/slow": "S"}))
	if ids != nil {
		t.Errorf("expected no ids on failure, got %v", ids)
	}
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if ue.Param != "bad" || !errors.Is(err, boom) {
		t.Errorf("unexpected upload error: %+v", ue)
	}
	// The slow sibling was not cancelled by the failure, settled before
	// ResolveUploads returned, and was not rolled back.
	up.mu.Lock()
	defer up.mu.Unlock()
	if up.uploaded["/slow"] != "object:S" {
		t.Errorf("sibling upload should have completed, got %v", up.uploaded)
	}
}

func TestResolveUploads_OpenFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	reqs := fileRequests(map[string]string{"img": "/missing"})
	_, err := ResolveUploads(context.Background(), &fakeUploader{}, reqs, memOpener(nil))
	var ue *UploadError
	if !errors.As(err, &ue) || ue.Path != "/missing" {
		t.Fatalf("expected UploadError for /missing, got %v", err)
	}
}

func TestResolveUploads_NoFiles(t *testing.T) {
	ids, err := ResolveUploads(context.Background(), &fakeUploader{}, []InputRequest{
		{Kind: RequestCheckbox, Name: "b", Checkbox: &CheckboxRequest{}},
	}, nil)
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected empty result, got %v %v", ids, err)
	}
}
