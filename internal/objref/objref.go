// Package objref recognizes and links object references returned by module
// executions. A reference is a string starting with the literal "object:" tag;
// the whole string (tag included) is the object id on the server.
package objref

import (
	"fmt"
	"net/url"
	"strings"
)

// Prefix tags a string output as a server-managed object reference.
const Prefix = "object:"

// Is reports whether v is a string beginning with the exact "object:" tag.
// No trimming or case folding is applied.
func Is(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, Prefix)
}

// Parse validates raw as an object reference and returns it unchanged.
func Parse(raw string) (string, error) {
	if !strings.HasPrefix(raw, Prefix) {
		return "", fmt.Errorf("invalid object reference %q", raw)
	}
	if strings.TrimPrefix(raw, Prefix) == "" {
		return "", fmt.Errorf("invalid object reference %q: empty id", raw)
	}
	return raw, nil
}

// RawURL is the link retrieving the object in its native form.
func RawURL(objectsBase, ref string) string {
	return strings.TrimRight(objectsBase, "/") + "/" + url.PathEscape(ref)
}

// ConvertURL is the link retrieving the object converted to format,
// i.e. <objectsBase>/<ref>/<format>.
func ConvertURL(objectsBase, ref, format string) string {
	return RawURL(objectsBase, ref) + "/" + url.PathEscape(format)
}
