package makedeps

import (
	"reflect"
	"testing"
)

func TestParseSourceDependencies(t *testing.T) {
	input := `{
		"Version": "1.1",
		"Data": {
			"Source": "src/widget.cpp",
			"ProvidedModule": null,
			"Includes": [
				"C:/proj/include/widget.h",
				"C:/proj/include/base.h"
			],
			"ImportedModules": [],
			"ImportedHeaderUnits": []
		}
	}`

	got, err := ParseSourceDependencies("widget.obj.json", []byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Deps{
		Output: "src/widget.cpp",
		Inputs: []string{"C:/proj/include/widget.h", "C:/proj/include/base.h"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestParseSourceDependenciesMalformed(t *testing.T) {
	if _, err := ParseSourceDependencies("bad.json", []byte("not json")); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}
