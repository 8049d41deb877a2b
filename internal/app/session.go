// Package app - session.go holds the in-memory state of one client session:
// the module list, cached module details, the object listing, the active
// object and the last fetched menu.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/imagej/ijc/internal/logger"
)

// DefaultCacheSize is the number of module details kept in memory.
const DefaultCacheSize = 128

// ModuleServer is the module server surface a Session needs.
type ModuleServer interface {
	Executor
	ListModules(ctx context.Context) ([]string, error)
	ModuleDetails(ctx context.Context, rawID string) ([]byte, error)
	ListObjects(ctx context.Context) ([]string, error)
	FetchObject(ctx context.Context, id, format string) ([]byte, error)
	FetchMenu(ctx context.Context, path string) ([]byte, error)
}

// MenuSource selects where the menu tree comes from.
type MenuSource string

const (
	MenuSourceAdmin    MenuSource = "admin"
	MenuSourceProvider MenuSource = "provider"
)

// ParseMenuSource parses a --source flag value.
func ParseMenuSource(s string) (MenuSource, error) {
	switch MenuSource(s) {
	case "", MenuSourceAdmin:
		return MenuSourceAdmin, nil
	case MenuSourceProvider:
		return MenuSourceProvider, nil
	default:
		return "", fmt.Errorf("unknown menu source %q (valid: admin, provider)", s)
	}
}

// SessionOptions configures a Session.
type SessionOptions struct {
	CacheSize int
	// Format is the conversion format for object output links.
	Format string
	Open   FileOpener
	// Now is the clock used for thumbnail timestamps; nil uses time.Now.
	Now func() time.Time
}

// Session is safe for concurrent use.
type Session struct {
	srv     ModuleServer
	details *lru.Cache[string, *ModuleDetails]
	format  string
	open    FileOpener
	now     func() time.Time

	mu      sync.Mutex
	modules []string
	objects []ObjectRef
	active  *ObjectRef
	menu    *MenuItem
}

// NewSession creates a session against srv.
func NewSession(srv ModuleServer, opts SessionOptions) (*Session, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *ModuleDetails](size)
	if err != nil {
		return nil, fmt.Errorf("module cache: %w", err)
	}
	format := opts.Format
	if format == "" {
		format = DefaultConversionFormat
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		srv:     srv,
		details: cache,
		format:  format,
		open:    opts.Open,
		now:     now,
	}, nil
}

// Format is the session's conversion format.
func (s *Session) Format() string { return s.format }

// ObjectsURL is the base of object links.
func (s *Session) ObjectsURL() string { return s.srv.ObjectsURL() }

// RefreshModules fetches the module list. On failure the previous list is
// kept and the error is returned.
func (s *Session) RefreshModules(ctx context.Context) ([]string, error) {
	ids, err := s.srv.ListModules(ctx)
	if err != nil {
		logger.Warn("module list refresh failed", "err", err)
		return s.Modules(), err
	}
	s.mu.Lock()
	s.modules = ids
	s.mu.Unlock()
	return append([]string(nil), ids...), nil
}

// Modules returns the last fetched module list.
func (s *Session) Modules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.modules...)
}

// ensureModules fetches the module list once.
func (s *Session) ensureModules(ctx context.Context) ([]string, error) {
	if mods := s.Modules(); len(mods) > 0 {
		return mods, nil
	}
	return s.RefreshModules(ctx)
}

// LookupModule resolves a full identifier or a bare class name to a
// module identifier. Identifiers containing a colon are used as given.
func (s *Session) LookupModule(ctx context.Context, query string) (string, error) {
	if strings.Contains(query, ":") {
		return query, nil
	}
	modules, err := s.ensureModules(ctx)
	if err != nil {
		return "", err
	}
	return MatchModule(modules, query)
}

// Details returns a module's metadata, from cache when possible.
func (s *Session) Details(ctx context.Context, rawID string) (*ModuleDetails, error) {
	if d, ok := s.details.Get(rawID); ok {
		return d, nil
	}
	raw, err := s.srv.ModuleDetails(ctx, rawID)
	if err != nil {
		return nil, err
	}
	d, err := DecodeModuleDetails(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawID, err)
	}
	s.details.Add(rawID, d)
	return d, nil
}

// RefreshObjects fetches the object listing. All references share one
// timestamp. The active object is kept when its id is still listed and
// cleared otherwise. On failure the previous listing is kept.
func (s *Session) RefreshObjects(ctx context.Context) ([]ObjectRef, error) {
	ids, err := s.srv.ListObjects(ctx)
	if err != nil {
		logger.Warn("object list refresh failed", "err", err)
		return s.Objects(), err
	}
	refs := ObjectRefs(s.srv.ObjectsURL(), ids, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = refs
	if s.active != nil {
		if ref, ok := findObject(refs, s.active.ID); ok {
			s.active = &ref
		} else {
			s.active = nil
		}
	}
	return append([]ObjectRef(nil), refs...), nil
}

// Objects returns the last fetched object listing.
func (s *Session) Objects() []ObjectRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ObjectRef(nil), s.objects...)
}

// SetActive makes id the active object. Unlisted ids are accepted; their
// reference is built with the current time.
func (s *Session) SetActive(id string) ObjectRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := findObject(s.objects, id)
	if !ok {
		ref = NewObjectRef(s.srv.ObjectsURL(), id, s.now())
	}
	s.active = &ref
	return ref
}

// ClearActive unsets the active object.
func (s *Session) ClearActive() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// ActiveObject returns a copy of the active object, or nil.
func (s *Session) ActiveObject() *ObjectRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	ref := *s.active
	return &ref
}

// Dialog is an open input dialog for one module. Its build context is the
// snapshot taken when it opened.
type Dialog struct {
	Module   *ModuleDetails
	Requests []InputRequest
	Context  BuildContext
}

// NeedsInput reports whether the module declares inputs.
func (d *Dialog) NeedsInput() bool { return len(d.Module.Inputs) > 0 }

// OpenDialog fetches the module's details and builds its input requests
// against the current active object.
func (s *Session) OpenDialog(ctx context.Context, rawID string) (*Dialog, error) {
	details, err := s.Details(ctx, rawID)
	if err != nil {
		return nil, err
	}
	bc := BuildContext{ActiveObject: s.ActiveObject()}
	requests, err := BuildRequests(details.Inputs, bc)
	if err != nil {
		return nil, err
	}
	return &Dialog{Module: details, Requests: requests, Context: bc}, nil
}

// Submit runs a dialog. Modules without inputs are executed directly. After
// outputs arrive the object listing is refreshed.
func (s *Session) Submit(ctx context.Context, d *Dialog, raw RawOverrides) (*ExecutionResult, error) {
	var (
		result *ExecutionResult
		err    error
	)
	if !d.NeedsInput() {
		result, err = ExecuteDirect(ctx, s.srv, d.Module, s.format)
	} else {
		result, err = Submit(ctx, s.srv, Submission{
			Module:   d.Module,
			Requests: d.Requests,
			Raw:      raw,
		}, SubmitOptions{Format: s.format, Open: s.open})
	}
	if err != nil {
		return nil, err
	}
	if len(result.Outputs) > 0 {
		_, _ = s.RefreshObjects(ctx)
	}
	return result, nil
}

// Menu fetches the menu tree from source. On failure the previous menu is
// returned with the error.
func (s *Session) Menu(ctx context.Context, source MenuSource) (*MenuItem, error) {
	menu, err := s.fetchMenu(ctx, source)
	if err != nil {
		logger.Warn("menu refresh failed", "source", source, "err", err)
		s.mu.Lock()
		prev := s.menu
		s.mu.Unlock()
		return prev, err
	}
	s.mu.Lock()
	s.menu = menu
	s.mu.Unlock()
	return menu, nil
}

func (s *Session) fetchMenu(ctx context.Context, source MenuSource) (*MenuItem, error) {
	switch source {
	case MenuSourceProvider:
		modules, err := s.ensureModules(ctx)
		if err != nil {
			return nil, err
		}
		provider, ok := FindMenuProvider(modules)
		if !ok {
			return nil, &ModuleNotFoundError{Command: "MenuProvider"}
		}
		raw, err := s.srv.ExecuteModuleRaw(ctx, provider, nil)
		if err != nil {
			return nil, newExecutionError(provider, err)
		}
		return ExtractMenu(raw)
	default:
		raw, err := s.srv.FetchMenu(ctx, "")
		if err != nil {
			return nil, err
		}
		return ExtractMenu(raw)
	}
}

// FindMenuProvider returns the command module whose class is MenuProvider.
func FindMenuProvider(modules []string) (string, bool) {
	for _, id := range modules {
		mid := ParseModuleID(id)
		if mid.Type == "command" && mid.Class == "MenuProvider" {
			return id, true
		}
	}
	return "", false
}

// ResolveMenuItem maps a menu leaf to a module identifier.
func (s *Session) ResolveMenuItem(ctx context.Context, item MenuItem) (string, error) {
	modules, err := s.ensureModules(ctx)
	if err != nil {
		return "", err
	}
	return ResolveModule(item, modules)
}

// ModuleGroup is the modules of one type, sorted by class.
type ModuleGroup struct {
	Type    string     `json:"type"`
	Modules []ModuleID `json:"modules"`
}

// GroupModules groups identifiers by type. Groups are sorted by type and
// modules by class, then source.
func GroupModules(ids []string) []ModuleGroup {
	byType := make(map[string][]ModuleID)
	for _, id := range ids {
		mid := ParseModuleID(id)
		byType[mid.Type] = append(byType[mid.Type], mid)
	}
	groups := make([]ModuleGroup, 0, len(byType))
	for t, mods := range byType {
		sort.Slice(mods, func(i, j int) bool {
			if !strings.EqualFold(mods[i].Class, mods[j].Class) {
				return strings.ToLower(mods[i].Class) < strings.ToLower(mods[j].Class)
			}
			return mods[i].Source < mods[j].Source
		})
		groups = append(groups, ModuleGroup{Type: t, Modules: mods})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Type < groups[j].Type })
	return groups
}
