package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gzhole/remindshield/internal/guardian"
)

func TestLoadPacks_EmptyDir(t *testing.T) {
	base := DefaultPolicy()

	result, infos, err := LoadPacks(t.TempDir(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected 0 pack infos, got %d", len(infos))
	}
	if len(result.Patterns) != len(base.Patterns) {
		t.Errorf("expected %d patterns, got %d", len(base.Patterns), len(result.Patterns))
	}
}

func TestLoadPacks_NonExistentDir(t *testing.T) {
	base := DefaultPolicy()
	result, _, err := LoadPacks("/nonexistent/path/packs", base)
	if err != nil {
		t.Fatalf("unexpected error for non-existent dir: %v", err)
	}
	if result != base {
		t.Error("expected base policy returned unchanged")
	}
}

func TestLoadPacks_MergesPatterns(t *testing.T) {
	dir := t.TempDir()
	base := DefaultPolicy()

	packYAML := `
name: "Jailbreak phrases"
description: "Common role-play jailbreak openers"
version: "1.0.0"
author: "Course staff"
patterns:
  - id: "ignore-previous"
    regex: 'ignore (all )?previous'
    category: "command-marker"
  - id: "inject-command"
    regex: 'shadowed'
`
	if err := os.WriteFile(filepath.Join(dir, "jailbreak.yaml"), []byte(packYAML), 0644); err != nil {
		t.Fatal(err)
	}

	result, infos, err := LoadPacks(dir, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 pack info, got %d", len(infos))
	}
	if infos[0].Name != "Jailbreak phrases" || infos[0].PatternCount != 2 || !infos[0].Enabled {
		t.Errorf("unexpected pack info: %+v", infos[0])
	}

	// inject-command already exists in the base and must not be replaced.
	if len(result.Patterns) != len(base.Patterns)+1 {
		t.Fatalf("expected %d patterns, got %d", len(base.Patterns)+1, len(result.Patterns))
	}
	if last := result.Patterns[len(result.Patterns)-1]; last.ID != "ignore-previous" {
		t.Errorf("expected pack pattern appended last, got %q", last.ID)
	}
	for _, p := range result.Patterns {
		if p.ID == "inject-command" && p.Regex != "/inject" {
			t.Errorf("base pattern was shadowed: %q", p.Regex)
		}
	}
	if len(base.Patterns) != len(DefaultPolicy().Patterns) {
		t.Error("base policy was mutated")
	}
}

func TestLoadPacks_DisabledAndBroken(t *testing.T) {
	dir := t.TempDir()
	disabled := "name: off\npatterns:\n  - id: x\n    regex: xyz\n"
	if err := os.WriteFile(filepath.Join(dir, "_off.yaml"), []byte(disabled), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("patterns: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a pack"), 0644); err != nil {
		t.Fatal(err)
	}

	base := DefaultPolicy()
	result, infos, err := LoadPacks(dir, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 pack infos, got %d", len(infos))
	}
	if len(result.Patterns) != len(base.Patterns) {
		t.Errorf("disabled or broken packs must not add patterns")
	}

	var sawDisabled, sawBroken bool
	for _, info := range infos {
		switch {
		case !info.Enabled:
			sawDisabled = true
		case info.Err != nil:
			sawBroken = true
		}
	}
	if !sawDisabled || !sawBroken {
		t.Errorf("expected one disabled and one broken pack, got %+v", infos)
	}
}

func TestLoadPacks_InvalidPackIsSkipped(t *testing.T) {
	dir := t.TempDir()
	bad := "name: bad\npatterns:\n  - id: ok-looking\n    regex: 'fine'\n  - id: broken\n    regex: '(unclosed'\n"
	good := "name: good\npatterns:\n  - id: ignore-previous\n    regex: 'ignore previous'\n"
	if err := os.WriteFile(filepath.Join(dir, "a_bad.yaml"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b_good.yaml"), []byte(good), 0644); err != nil {
		t.Fatal(err)
	}

	base := DefaultPolicy()
	result, infos, err := LoadPacks(dir, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 pack infos, got %d", len(infos))
	}
	if !errors.Is(infos[0].Err, guardian.ErrInvalidPattern) {
		t.Errorf("expected bad pack to report ErrInvalidPattern, got %v", infos[0].Err)
	}
	if infos[1].Err != nil {
		t.Errorf("good pack reported error: %v", infos[1].Err)
	}

	if len(result.Patterns) != len(base.Patterns)+1 {
		t.Fatalf("expected only the good pack's pattern to merge, got %d patterns", len(result.Patterns))
	}
	for _, p := range result.Patterns {
		if p.ID == "ok-looking" {
			t.Error("a pack with an invalid pattern must contribute nothing")
		}
	}

	if _, err := Compile(result); err != nil {
		t.Fatalf("merged policy should compile: %v", err)
	}
}

func TestLoadPacks_UnnamedPatternCannotCollide(t *testing.T) {
	dir := t.TempDir()
	first := "name: first\npatterns:\n  - id: homework\n    regex: 'hw override'\n"
	// No id: CompilePattern names this rule after its regex, "homework".
	second := "name: second\npatterns:\n  - regex: 'homework'\n  - regex: 'drop'\n"
	if err := os.WriteFile(filepath.Join(dir, "first.yaml"), []byte(first), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "second.yaml"), []byte(second), 0644); err != nil {
		t.Fatal(err)
	}

	base := DefaultPolicy()
	result, infos, err := LoadPacks(dir, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, info := range infos {
		if info.Err != nil {
			t.Errorf("pack %s: unexpected error %v", info.Name, info.Err)
		}
	}
	if len(result.Patterns) != len(base.Patterns)+2 {
		t.Fatalf("expected 2 new patterns, got %d", len(result.Patterns)-len(base.Patterns))
	}

	compiled, err := Compile(result)
	if err != nil {
		t.Fatalf("merged policy should compile: %v", err)
	}
	if !compiled.Detector.Detect("hw override please") {
		t.Error("first pack's pattern should be active")
	}
}
