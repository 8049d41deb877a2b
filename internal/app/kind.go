// Package app - kind.go classifies server-reported type identifiers.
package app

import (
	"regexp"
)

// SemanticKind is the closed classification of a parameter's declared type.
// Everything downstream switches on SemanticKind; raw type identifiers are
// only inspected here.
type SemanticKind string

const (
	KindInteger        SemanticKind = "integer"
	KindFloat          SemanticKind = "float"
	KindBoolean        SemanticKind = "boolean"
	KindString         SemanticKind = "string"
	KindDate           SemanticKind = "date"
	KindFile           SemanticKind = "file"
	KindInjectable     SemanticKind = "injectable"
	KindImageReference SemanticKind = "image-reference"
	KindEnumerated     SemanticKind = "enumerated"
	KindUnrecognized   SemanticKind = "unrecognized"
)

// IsNumeric reports whether k is rendered as a spinner.
func (k SemanticKind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat
}

func set(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Membership tables. They are disjoint.
var (
	integerTypes = set(
		"int", "long", "short", "byte",
		"class java.lang.Integer", "class java.lang.Long", "class java.lang.Short",
		"class java.lang.Byte", "class java.math.BigInteger",
	)
	floatTypes = set(
		"float", "double",
		"class java.lang.Float", "class java.lang.Double", "class java.math.BigDecimal",
	)
	booleanTypes = set("boolean", "class java.lang.Boolean")
	stringTypes  = set("char", "class java.lang.Character", "class java.lang.String")
	dateTypes    = set("class java.util.Date")
	fileTypes    = set("class java.io.File")

	injectableTypes = set(
		"class org.scijava.Context",
		"interface net.imagej.DatasetService",
		"interface net.imagej.display.ImageDisplayService",
		"interface net.imagej.display.OverlayService",
		"interface org.scijava.command.CommandService",
		"interface net.imagej.display.ZoomService",
		"interface org.scijava.display.DisplayService",
		"interface org.scijava.event.EventService",
		"interface org.scijava.thread.ThreadService",
		"interface org.scijava.log.LogService",
		"interface net.imagej.autoscale.AutoscaleService",
		"interface org.scijava.prefs.PrefService",
		"interface org.scijava.module.ModuleService",
		"interface io.scif.services.DatasetIOService",
		"interface net.imagej.types.DataTypeService",
		"interface org.scijava.io.IOService",
		"interface org.scijava.ui.UIService",
	)

	// DatasetView arrives as an image reference too; the server converts it.
	imageReferenceTypes = set(
		"interface net.imagej.Dataset",
		"interface net.imagej.display.ImageDisplay",
		"interface net.imagej.display.DatasetView",
	)
)

// Classify maps a type identifier to its SemanticKind. A non-nil choices
// list wins over any identifier. Classify is total: unknown identifiers
// yield KindUnrecognized.
func Classify(typeID string, choices []string) SemanticKind {
	if choices != nil {
		return KindEnumerated
	}
	switch {
	case integerTypes[typeID]:
		return KindInteger
	case floatTypes[typeID]:
		return KindFloat
	case booleanTypes[typeID]:
		return KindBoolean
	case stringTypes[typeID]:
		return KindString
	case dateTypes[typeID]:
		return KindDate
	case fileTypes[typeID]:
		return KindFile
	case injectableTypes[typeID]:
		return KindInjectable
	case imageReferenceTypes[typeID]:
		return KindImageReference
	default:
		return KindUnrecognized
	}
}

// shortTypePattern captures the last segment before an optional generic suffix.
var shortTypePattern = regexp.MustCompile(`([^.<]+)(<.*?>)?$`)

// ShortName strips namespace prefixes and a trailing generic parameter list:
// "interface java.util.List<java.lang.String>" -> "List".
func ShortName(typeID string) string {
	m := shortTypePattern.FindStringSubmatch(typeID)
	if m == nil {
		return typeID
	}
	return m[1]
}

// TypeInfo keeps the compact and the full form of a type identifier together.
type TypeInfo struct {
	Short string `json:"short"`
	Full  string `json:"full"`
}

// NewTypeInfo builds the display pair for typeID.
func NewTypeInfo(typeID string) TypeInfo {
	return TypeInfo{Short: ShortName(typeID), Full: typeID}
}
