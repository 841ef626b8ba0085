// SPDX-License-Identifier: MPL-2.0

package icons

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMaterialize(t *testing.T) {
	dir := t.TempDir()

	path, err := Materialize(dir)
	if err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}
	if filepath.Base(path) != DefaultIconName {
		t.Errorf("icon name = %s, want %s", filepath.Base(path), DefaultIconName)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat icon: %v", err)
	}
	if info.Size() == 0 {
		t.Error("materialized icon is empty")
	}

	// A second call must be idempotent and keep the same path.
	again, err := Materialize(dir)
	if err != nil {
		t.Fatalf("second Materialize() error: %v", err)
	}
	if again != path {
		t.Errorf("second Materialize() = %s, want %s", again, path)
	}
}

func TestMaterialize_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "icons")

	if _, err := Materialize(dir); err != nil {
		t.Fatalf("Materialize() into missing dir: %v", err)
	}
}
