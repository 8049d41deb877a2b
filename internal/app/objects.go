package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ThumbnailFormat is the format thumbnails of listed objects are fetched in.
const ThumbnailFormat = "jpg"

// ObjectRef is a server-managed object as the client sees it: its id and a
// retrieval URL made unique per listing refresh so stale images are not
// served from caches. ObjectRefs are replaced, never edited.
type ObjectRef struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// NewObjectRef builds the reference for id using the listing timestamp.
func NewObjectRef(objectsURL, id string, timestamp time.Time) ObjectRef {
	return ObjectRef{
		ID:  id,
		Src: thumbnailURL(objectsURL, id, timestamp),
	}
}

func thumbnailURL(objectsURL, id string, ts time.Time) string {
	return fmt.Sprintf("%s/%s/%s?timestamp=%d",
		strings.TrimRight(objectsURL, "/"), url.PathEscape(id), ThumbnailFormat, ts.UnixMilli())
}

// ObjectRefs builds references for a listing; all share one timestamp.
func ObjectRefs(objectsURL string, ids []string, timestamp time.Time) []ObjectRef {
	refs := make([]ObjectRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, NewObjectRef(objectsURL, id, timestamp))
	}
	return refs
}

// findObject returns the reference with id, if listed.
func findObject(refs []ObjectRef, id string) (ObjectRef, bool) {
	for _, r := range refs {
		if r.ID == id {
			return r, true
		}
	}
	return ObjectRef{}, false
}

// ObjectListing is the printable object list.
type ObjectListing struct {
	Objects []ObjectRef `json:"objects"`
	Active  string      `json:"active,omitempty"`
}

// Render returns a human-friendly representation.
func (l ObjectListing) Render() string {
	s := Styles
	if len(l.Objects) == 0 {
		return s.Dim.Render("No objects.")
	}
	var sb strings.Builder
	sb.WriteString(s.Header.Render(fmt.Sprintf("Objects (%d)", len(l.Objects))))
	sb.WriteString("\n")
	for _, o := range l.Objects {
		marker := s.Bullet.Render("•")
		if o.ID == l.Active {
			marker = s.Active.Render("*")
		}
		fmt.Fprintf(&sb, "  %s %s\n", marker, s.Object.Render(o.ID))
		fmt.Fprintf(&sb, "    %s\n", s.Dim.Render(o.Src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ObjectLinks are the retrieval links of one object reference.
type ObjectLinks struct {
	Ref        string `json:"ref"`
	RawURL     string `json:"rawUrl"`
	Format     string `json:"format"`
	ConvertURL string `json:"convertUrl"`
}

// NewObjectLinks builds the links of ref, converting to format.
func NewObjectLinks(objectsURL, ref, format string) ObjectLinks {
	o := ClassifyOutput(objectsURL, format, "", ref)
	return ObjectLinks{Ref: ref, RawURL: o.RawURL, Format: o.Format, ConvertURL: o.ConvertURL}
}

// Render returns a human-friendly representation.
func (l ObjectLinks) Render() string {
	s := Styles
	return fmt.Sprintf("%s\n  %s %s\n  %s %s",
		s.Object.Render(l.Ref),
		s.Dim.Render("raw:"), s.Link.Render(l.RawURL),
		s.Dim.Render(l.Format+":"), s.Link.Render(l.ConvertURL))
}

// UploadedObject is the result of an upload.
type UploadedObject struct {
	Path string `json:"path"`
	ID   string `json:"id"`
}

// Render returns a human-friendly representation.
func (u UploadedObject) Render() string {
	return fmt.Sprintf("Uploaded %s as %s", u.Path, Styles.Object.Render(u.ID))
}
