package app

import "testing"

func TestClassify_Tables(t *testing.T) {
	tables := []struct {
		kind SemanticKind
		ids  map[string]bool
	}{
		{KindInteger, integerTypes},
		{KindFloat, floatTypes},
		{KindBoolean, booleanTypes},
		{KindString, stringTypes},
		{KindDate, dateTypes},
		{KindFile, fileTypes},
		{KindInjectable, injectableTypes},
		{KindImageReference, imageReferenceTypes},
	}
	for _, tt := range tables {
		for id := range tt.ids {
			if got := Classify(id, nil); got != tt.kind {
				t.Errorf("Classify(%q) = %q, want %q", id, got, tt.kind)
			}
		}
	}
}

func TestClassify_TablesAreDisjoint(t *testing.T) {
	all := []map[string]bool{
		integerTypes, floatTypes, booleanTypes, stringTypes, dateTypes,
		fileTypes, injectableTypes, imageReferenceTypes,
	}
	seen := map[string]int{}
	for i, table := range all {
		for id := range table {
			if j, ok := seen[id]; ok {
				t.Errorf("%q is in tables %d and %d", id, j, i)
			}
			seen[id] = i
		}
	}
}

func TestClassify_Unrecognized(t *testing.T) {
	for _, id := range []string{"", "class java.lang.Object", "interface net.imagej.ops.OpService", "Integer", "class java.lang.integer"} {
		if got := Classify(id, nil); got != KindUnrecognized {
			t.Errorf("Classify(%q) = %q, want unrecognized", id, got)
		}
	}
}

func TestClassify_ChoicesWin(t *testing.T) {
	for _, id := range []string{"int", "class java.lang.String", "interface net.imagej.Dataset", "whatever"} {
		if got := Classify(id, []string{"a", "b"}); got != KindEnumerated {
			t.Errorf("Classify(%q, choices) = %q, want enumerated", id, got)
		}
	}
	if got := Classify("int", []string{}); got != KindEnumerated {
		t.Errorf("empty non-nil choices should still be enumerated, got %q", got)
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"int", "int"},
		{"class java.lang.String", "String"},
		{"interface net.imagej.Dataset", "Dataset"},
		{"interface java.util.List<java.lang.String>", "List"},
		{"class net.imglib2.img.Img<net.imglib2.type.numeric.real.FloatType>", "Img"},
	}
	for _, tt := range tests {
		if got := ShortName(tt.in); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTypeInfo_KeepsBothForms(t *testing.T) {
	ti := NewTypeInfo("class java.lang.Double")
	if ti.Short != "Double" || ti.Full != "class java.lang.Double" {
		t.Errorf("unexpected TypeInfo: %+v", ti)
	}
}
