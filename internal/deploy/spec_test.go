// SPDX-License-Identifier: MPL-2.0

package deploy

import (
	"path/filepath"
	"testing"

	"qtdeploy-cli/internal/testutil"
)

func TestLoadSpec_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}
	if spec.Existing {
		t.Error("spec for a missing file should not report Existing")
	}
	if _, ok := spec.Get(SectionApp, "title"); ok {
		t.Error("empty spec should have no values")
	}
}

func TestSpec_GetAbsentIsRecoverable(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)
	testutil.MustWriteFile(t, path, "[app]\ntitle = Demo\n")

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}

	if _, ok := spec.Get(SectionApp, "missing_key"); ok {
		t.Error("absent key should report not-ok")
	}
	if _, ok := spec.Get("missing_section", "title"); ok {
		t.Error("absent section should report not-ok")
	}
	// Empty values count as absent so discovery can fill them in.
	spec.Set(SectionApp, "icon", "")
	if _, ok := spec.Get(SectionApp, "icon"); ok {
		t.Error("empty value should report not-ok")
	}
}

func TestSpec_LastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}

	spec.Set(SectionApp, "title", "First")
	spec.Set(SectionApp, "title", "Second")

	got, ok := spec.Get(SectionApp, "title")
	if !ok || got != "Second" {
		t.Errorf("Get() = %q, want Second", got)
	}
}

func TestSpec_CommentLinesIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)
	testutil.MustWriteFile(t, path, `/ deployment spec for Demo
[app]
/ the display name
title = Demo
`)

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}

	got, ok := spec.Get(SectionApp, "title")
	if !ok || got != "Demo" {
		t.Errorf("Get() = %q, want Demo", got)
	}
}

func TestSpec_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}
	spec.Set(SectionApp, "title", "Round Trip App")
	spec.Set(SectionQt, "qml_files", "main.qml,views/home.qml")

	if err := spec.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !spec.Existing {
		t.Error("Save() should mark the spec as existing")
	}

	reloaded, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got, _ := reloaded.Get(SectionApp, "title"); got != "Round Trip App" {
		t.Errorf("title after round trip = %q", got)
	}
	if got, _ := reloaded.Get(SectionQt, "qml_files"); got != "main.qml,views/home.qml" {
		t.Errorf("qml_files after round trip = %q", got)
	}
}

func TestSpec_SaveRewritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)
	testutil.MustWriteFile(t, path, "[app]\ntitle = Old\nstale_key = leftover\n")

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}
	spec.Set(SectionApp, "title", "New")
	if err := spec.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// The rewrite keeps the full in-memory state, nothing more.
	reloaded, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got, _ := reloaded.Get(SectionApp, "title"); got != "New" {
		t.Errorf("title = %q, want New", got)
	}
	if got, ok := reloaded.Get(SectionApp, "stale_key"); !ok || got != "leftover" {
		t.Errorf("stale_key = %q, want preserved leftover", got)
	}
}

func TestSpec_Lists(t *testing.T) {
	path := filepath.Join(t.TempDir(), SpecFileName)

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error: %v", err)
	}

	spec.SetList(SectionQt, "excluded_qml_plugins", []string{"QtCharts", "QtWebEngine"})
	got, ok := spec.GetList(SectionQt, "excluded_qml_plugins")
	if !ok || len(got) != 2 || got[0] != "QtCharts" || got[1] != "QtWebEngine" {
		t.Errorf("GetList() = %v", got)
	}

	if _, ok := spec.GetList(SectionQt, "qml_files"); ok {
		t.Error("GetList of absent key should report not-ok")
	}
}

func TestDefaultSpecPath(t *testing.T) {
	dir := t.TempDir()

	got, err := DefaultSpecPath(filepath.Join(dir, "main.py"))
	if err != nil {
		t.Fatalf("DefaultSpecPath() error: %v", err)
	}
	if got != filepath.Join(dir, SpecFileName) {
		t.Errorf("DefaultSpecPath() = %s", got)
	}

	restore := testutil.MustChdir(t, dir)
	defer restore()

	got, err = DefaultSpecPath("")
	if err != nil {
		t.Fatalf("DefaultSpecPath(\"\") error: %v", err)
	}
	if filepath.Base(got) != SpecFileName {
		t.Errorf("DefaultSpecPath(\"\") = %s", got)
	}
}
