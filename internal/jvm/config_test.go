// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package jvm_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jitdiff/errors"
	"jitdiff/internal/jvm"
	"jitdiff/testutil"
)

func TestLoadConfig(t *testing.T) {
	td := testutil.TempDir(t)
	const doc = `environments:
  - root: /usr/lib/jvm/jdk-11
    options: ["-XX:TieredStopAtLevel=1", "-Xbatch"]
  - root: /usr/lib/jvm/jdk-17
`
	if err := testutil.WriteFiles(td, map[string]string{"envs.yaml": doc}); err != nil {
		t.Fatal(err)
	}

	got, err := jvm.LoadConfig(filepath.Join(td, "envs.yaml"))
	if err != nil {
		t.Fatal("LoadConfig failed: ", err)
	}
	want := []jvm.EnvSpec{
		{Root: "/usr/lib/jvm/jdk-11", Options: []string{"-XX:TieredStopAtLevel=1", "-Xbatch"}},
		{Root: "/usr/lib/jvm/jdk-17"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("LoadConfig mismatch (-got +want):\n%s", diff)
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"noEnvironments", "environments: []\n"},
		{"unknownKey", "environments:\n  - root: /jdk\n    option: [-Xint]\n"},
		{"malformed", "environments: {\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jvm.ParseConfig([]byte(tc.doc))
			var cerr *jvm.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Errorf("ParseConfig(%q) returned %v; want ConfigurationError", tc.doc, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	td := testutil.TempDir(t)
	_, err := jvm.LoadConfig(filepath.Join(td, "missing.yaml"))
	var cerr *jvm.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("LoadConfig returned %v; want ConfigurationError", err)
	}
}

func TestSpecsFromHomes(t *testing.T) {
	got := jvm.SpecsFromHomes([]string{"/a", "/b"})
	want := []jvm.EnvSpec{{Root: "/a"}, {Root: "/b"}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("SpecsFromHomes mismatch (-got +want):\n%s", diff)
	}
}

func TestSpecsFromEnv(t *testing.T) {
	got, err := jvm.SpecsFromEnv(func(k string) string {
		if k == jvm.JavaHomeEnv {
			return "/opt/jdk"
		}
		return ""
	})
	if err != nil {
		t.Fatal("SpecsFromEnv failed: ", err)
	}
	if diff := cmp.Diff(got, []jvm.EnvSpec{{Root: "/opt/jdk"}}); diff != "" {
		t.Errorf("SpecsFromEnv mismatch (-got +want):\n%s", diff)
	}

	_, err = jvm.SpecsFromEnv(func(string) string { return "" })
	var cerr *jvm.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("SpecsFromEnv with unset %s returned %v; want ConfigurationError", jvm.JavaHomeEnv, err)
	}
}
