package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gzhole/remindshield/internal/guardian"
)

// Pack is an extra set of threat patterns dropped into the packs directory.
// Packs can only add detections; the calendar and intent rules stay owned
// by the main policy file.
type Pack struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	PackVersion string        `yaml:"version"`
	Author      string        `yaml:"author"`
	Patterns    []PatternSpec `yaml:"patterns"`
}

// PackInfo is a summary of a pack for listing.
type PackInfo struct {
	Name         string
	Description  string
	Version      string
	Author       string
	Enabled      bool
	Path         string
	PatternCount int
	Err          error
}

// LoadPacks reads every .yaml file in packsDir and appends its patterns after
// the base patterns. Files prefixed with "_" are listed but disabled.
// Patterns whose ID already exists are skipped so a pack cannot shadow a
// base rule. A pack with an invalid pattern is reported through
// PackInfo.Err and contributes nothing.
func LoadPacks(packsDir string, base *Policy) (*Policy, []PackInfo, error) {
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil, nil
		}
		return nil, nil, err
	}

	result := clonePolicy(base)
	var infos []PackInfo

	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		path := filepath.Join(packsDir, entry.Name())
		baseName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		enabled := !strings.HasPrefix(baseName, "_")

		pack, err := loadPack(path)
		if err != nil {
			infos = append(infos, PackInfo{Name: baseName, Enabled: enabled, Path: path, Err: err})
			continue
		}

		info := PackInfo{
			Name:         pack.Name,
			Description:  pack.Description,
			Version:      pack.PackVersion,
			Author:       pack.Author,
			Enabled:      enabled,
			Path:         path,
			PatternCount: len(pack.Patterns),
		}
		if info.Name == "" {
			info.Name = baseName
		}
		if enabled {
			if err := mergePackInto(result, pack); err != nil {
				info.Err = fmt.Errorf("pack %s: %w", baseName, err)
			}
		}
		infos = append(infos, info)
	}

	return result, infos, nil
}

func loadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse pack %s: %w", path, err)
	}
	return &pack, nil
}

// mergePackInto appends the pack's new patterns to target. Every pattern is
// compiled first; on any error target is left untouched.
func mergePackInto(target *Policy, pack *Pack) error {
	existing := make(map[string]bool, len(target.Patterns))
	for _, p := range target.Patterns {
		existing[patternKey(p)] = true
	}

	var added []PatternSpec
	for _, p := range pack.Patterns {
		rule, err := guardian.CompilePattern(p.pattern())
		if err != nil {
			return err
		}
		if existing[rule.ID()] {
			continue
		}
		existing[rule.ID()] = true
		added = append(added, p)
	}
	target.Patterns = append(target.Patterns, added...)
	return nil
}

// patternKey is the rule ID CompilePattern will assign.
func patternKey(p PatternSpec) string {
	if p.ID != "" {
		return p.ID
	}
	return p.Regex
}

func clonePolicy(p *Policy) *Policy {
	clone := &Policy{
		Version: p.Version,
		Limits:  p.Limits,
	}
	clone.Patterns = append([]PatternSpec{}, p.Patterns...)
	clone.Calendar = append([]CalendarEntry{}, p.Calendar...)
	clone.Intents = append([]IntentSpec{}, p.Intents...)
	return clone
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
