package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/imagej/ijc/internal/server"
)

// fakeModuleServer serves a small module server surface.
type fakeModuleServer struct {
	mu          sync.Mutex
	objects     []string
	failObjects bool
	failMenu    bool
	detailHits  atomic.Int32
	executed    []map[string]any
}

func (f *fakeModuleServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/modules", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["command:net.imagej.ops.Crop","command:net.imagej.server.utilities.MenuProvider","command:org.example.Hello"]`)
	})
	mux.HandleFunc("/modules/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/modules/")
		if r.Method == http.MethodPost {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.executed = append(f.executed, body)
			f.objects = append(f.objects, "object:new")
			f.mu.Unlock()
			switch id {
			case "command:net.imagej.server.utilities.MenuProvider":
				fmt.Fprint(w, `{"mappedMenuItems":{"Label":"","Command":"","Child0":{"Label":"Image","Command":"","Child0":{"Label":"Crop","Command":"net.imagej.ops.Crop"}}}}`)
			default:
				fmt.Fprint(w, `{"out":"object:new"}`)
			}
			return
		}
		f.detailHits.Add(1)
		switch id {
		case "command:net.imagej.ops.Crop":
			fmt.Fprint(w, `{"identifier":"command:net.imagej.ops.Crop",
				"inputs":[{"name":"in","genericType":"interface net.imagej.Dataset","required":true}],
				"outputs":[{"name":"out","genericType":"interface net.imagej.Dataset"}]}`)
		case "command:org.example.Hello":
			fmt.Fprint(w, `{"identifier":"command:org.example.Hello","inputs":[],"outputs":[{"name":"out","genericType":"class java.lang.String"}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/objects", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failObjects {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(f.objects)
	})
	mux.HandleFunc("/admin/menuNew", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failMenu {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"Level":0,"Label":"Menu","Command":null,"Child0":{"Level":1,"Label":"Hello","Command":"org.example.Hello"}}`)
	})
	return mux
}

func newTestSession(t *testing.T, f *fakeModuleServer) *Session {
	t.Helper()
	ts := httptest.NewServer(f.handler(t))
	t.Cleanup(ts.Close)
	fixed := time.UnixMilli(1700000000000)
	s, err := NewSession(server.New(server.Options{BaseURL: ts.URL}), SessionOptions{Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSession_DetailsAreCached(t *testing.T) {
	f := &fakeModuleServer{}
	s := newTestSession(t, f)
	for i := 0; i < 3; i++ {
		if _, err := s.Details(context.Background(), "command:net.imagej.ops.Crop"); err != nil {
			t.Fatalf("Details: %v", err)
		}
	}
	if got := f.detailHits.Load(); got != 1 {
		t.Errorf("expected one detail fetch, got %d", got)
	}
}

func TestSession_RefreshObjectsKeepsActive(t *testing.T) {
	f := &fakeModuleServer{objects: []string{"object:a", "object:b"}}
	s := newTestSession(t, f)

	refs, err := s.RefreshObjects(context.Background())
	if err != nil {
		t.Fatalf("RefreshObjects: %v", err)
	}
	if len(refs) != 2 || !strings.HasSuffix(refs[0].Src, "/objects/object:a/jpg?timestamp=1700000000000") {
		t.Fatalf("unexpected refs: %+v", refs)
	}

	s.SetActive("object:b")
	if _, err := s.RefreshObjects(context.Background()); err != nil {
		t.Fatalf("RefreshObjects: %v", err)
	}
	if a := s.ActiveObject(); a == nil || a.ID != "object:b" {
		t.Errorf("active object should survive refresh, got %+v", a)
	}

	f.mu.Lock()
	f.objects = []string{"object:a"}
	f.mu.Unlock()
	if _, err := s.RefreshObjects(context.Background()); err != nil {
		t.Fatalf("RefreshObjects: %v", err)
	}
	if a := s.ActiveObject(); a != nil {
		t.Errorf("active object should be cleared once unlisted, got %+v", a)
	}
}

func TestSession_RefreshFailureKeepsState(t *testing.T) {
	f := &fakeModuleServer{objects: []string{"object:a"}}
	s := newTestSession(t, f)
	if _, err := s.RefreshObjects(context.Background()); err != nil {
		t.Fatalf("RefreshObjects: %v", err)
	}

	f.mu.Lock()
	f.failObjects = true
	f.mu.Unlock()
	refs, err := s.RefreshObjects(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(refs) != 1 || refs[0].ID != "object:a" {
		t.Errorf("previous listing should be kept, got %+v", refs)
	}
}

func TestSession_DialogSnapshotsActiveObject(t *testing.T) {
	f := &fakeModuleServer{objects: []string{"object:a", "object:b"}}
	s := newTestSession(t, f)
	ctx := context.Background()

	_, err := s.OpenDialog(ctx, "command:net.imagej.ops.Crop")
	var mc *MissingContextError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingContextError, got %v", err)
	}

	s.SetActive("object:a")
	d, err := s.OpenDialog(ctx, "command:net.imagej.ops.Crop")
	if err != nil {
		t.Fatalf("OpenDialog: %v", err)
	}
	s.SetActive("object:b")

	if d.Requests[0].Thumbnail.ObjectID != "object:a" {
		t.Errorf("open dialog must keep its snapshot, got %q", d.Requests[0].Thumbnail.ObjectID)
	}

	result, err := s.Submit(ctx, d, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"in": "object:a"}, f.executed[0]); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if result.Outputs[0].Kind != OutputObject {
		t.Errorf("expected object output, got %+v", result.Outputs[0])
	}
	// Outputs trigger an object refresh.
	found := false
	for _, o := range s.Objects() {
		if o.ID == "object:new" {
			found = true
		}
	}
	if !found {
		t.Errorf("object list not refreshed after execution: %+v", s.Objects())
	}
}

func TestSession_SubmitWithoutInputsSendsNull(t *testing.T) {
	f := &fakeModuleServer{}
	s := newTestSession(t, f)
	d, err := s.OpenDialog(context.Background(), "command:org.example.Hello")
	if err != nil {
		t.Fatalf("OpenDialog: %v", err)
	}
	if d.NeedsInput() {
		t.Fatal("Hello declares no inputs")
	}
	if _, err := s.Submit(context.Background(), d, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.executed[0] != nil {
		t.Errorf("expected null body, got %v", f.executed[0])
	}
}

func TestSession_MenuSources(t *testing.T) {
	f := &fakeModuleServer{}
	s := newTestSession(t, f)
	ctx := context.Background()

	admin, err := s.Menu(ctx, MenuSourceAdmin)
	if err != nil {
		t.Fatalf("Menu(admin): %v", err)
	}
	id, err := s.ResolveMenuItem(ctx, admin.Children[0])
	if err != nil || id != "command:org.example.Hello" {
		t.Errorf("ResolveMenuItem = %q, %v", id, err)
	}

	provider, err := s.Menu(ctx, MenuSourceProvider)
	if err != nil {
		t.Fatalf("Menu(provider): %v", err)
	}
	leaf, err := FindMenuItem(provider, []string{"Image", "Crop"})
	if err != nil {
		t.Fatalf("FindMenuItem: %v", err)
	}
	if leaf.ModuleID() != "command:net.imagej.ops.Crop" {
		t.Errorf("ModuleID = %q", leaf.ModuleID())
	}

	f.mu.Lock()
	f.failMenu = true
	f.mu.Unlock()
	prev, err := s.Menu(ctx, MenuSourceAdmin)
	if err == nil {
		t.Fatal("expected error")
	}
	if prev != provider {
		t.Error("failed refresh should return the previous menu")
	}
}

func TestGroupModules(t *testing.T) {
	groups := GroupModules([]string{
		"command:net.imagej.ops.Crop",
		"script:scripts.hello",
		"command:net.imagej.ops.Blur",
		"command:org.other.blur",
	})
	if len(groups) != 2 || groups[0].Type != "command" || groups[1].Type != "script" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	var classes []string
	for _, m := range groups[0].Modules {
		classes = append(classes, m.Class)
	}
	if diff := cmp.Diff([]string{"Blur", "blur", "Crop"}, classes); diff != "" {
		t.Errorf("class order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMenuSource(t *testing.T) {
	if s, err := ParseMenuSource(""); err != nil || s != MenuSourceAdmin {
		t.Errorf("default source = %q, %v", s, err)
	}
	if _, err := ParseMenuSource("ftp"); err == nil {
		t.Error("expected error")
	}
}
