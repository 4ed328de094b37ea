package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/justyntemme/shellicon/internal/debug"
)

func TestParseDebugFlag(t *testing.T) {
	testCases := []struct {
		value    string
		expected debugSelection
	}{
		{"all", debugSelection{all: true}},
		{"None", debugSelection{none: true}},
		{"icon, cache", debugSelection{enable: []debug.Category{debug.ICON, debug.CACHE}}},
		{"all,-fs_entry", debugSelection{all: true, disable: []debug.Category{debug.FS_ENTRY}}},
		{"+cli,", debugSelection{enable: []debug.Category{debug.CLI}}},
	}

	for _, tc := range testCases {
		if got := parseDebugFlag(tc.value); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("parseDebugFlag(%q): expected %+v, got %+v", tc.value, tc.expected, got)
		}
	}
}

func TestApplyDebugFlag(t *testing.T) {
	var stderr bytes.Buffer
	applyDebugFlag("", &stderr)
	if stderr.Len() != 0 {
		t.Errorf("empty flag should be silent, got %q", stderr.String())
	}

	applyDebugFlag("ICON", &stderr)
	if debug.Enabled {
		if !debug.IsEnabled(debug.ICON) || debug.IsEnabled(debug.CACHE) {
			t.Errorf("expected only ICON enabled, got %v", debug.ListEnabled())
		}
		debug.EnableAll()
		debug.Disable(debug.FS_ENTRY)
	} else if !strings.Contains(stderr.String(), "-tags debug") {
		t.Errorf("expected a release-build warning, got %q", stderr.String())
	}
}
