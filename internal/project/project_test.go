// SPDX-License-Identifier: MPL-2.0

package project

import (
	"path/filepath"
	"testing"

	"qtdeploy-cli/internal/testutil"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.pyproject")
	testutil.MustWriteFile(t, path, `{"files": ["main.py", "main.qml", "views/home.qml", "sub.pyproject"]}`)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if data.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", data.Dir(), dir)
	}
	if len(data.Files) != 4 {
		t.Errorf("len(Files) = %d, want 4", len(data.Files))
	}
}

func TestQmlFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.pyproject")
	testutil.MustWriteFile(t, path, `{"files": ["main.py", "main.qml", "views/home.qml"]}`)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	qml := data.QmlFiles()
	want := []string{
		filepath.Join(dir, "main.qml"),
		filepath.Join(dir, "views", "home.qml"),
	}
	if len(qml) != len(want) {
		t.Fatalf("QmlFiles() = %v, want %v", qml, want)
	}
	for i := range want {
		if qml[i] != want[i] {
			t.Errorf("QmlFiles()[%d] = %s, want %s", i, qml[i], want[i])
		}
	}
}

func TestSubProjectFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.pyproject")
	testutil.MustWriteFile(t, path, `{"files": ["main.py", "nested/sub.pyproject"]}`)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	subs := data.SubProjectFiles()
	if len(subs) != 1 || subs[0] != filepath.Join(dir, "nested", "sub.pyproject") {
		t.Errorf("SubProjectFiles() = %v", subs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.pyproject")); err == nil {
		t.Error("expected error for missing descriptor")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pyproject")
	testutil.MustWriteFile(t, path, `{"files": [`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed descriptor")
	}
}

func TestQmlFiles_EmptyDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pyproject")
	testutil.MustWriteFile(t, path, `{}`)

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data.QmlFiles()) != 0 {
		t.Errorf("QmlFiles() on empty descriptor = %v, want none", data.QmlFiles())
	}
}
