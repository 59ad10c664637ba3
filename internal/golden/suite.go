// Package golden records and verifies transcripts of interpreter scripts.
//
// A suite is a directory of *.cmd scripts with a matching *.expected file each,
// optionally described by a golden.yaml manifest. Scripts run in-process against a
// fresh interpreter with plain output and deterministic ids, so transcripts are
// stable across machines.
package golden

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"cmdshell/internal/version"
)

// File name conventions.
const (
	ManifestFile = "golden.yaml"
	ScriptExt    = ".cmd"
	ExpectedExt  = ".expected"
)

// Case is one script of a suite.
type Case struct {
	Name            string `yaml:"name"`
	Script          string `yaml:"script,omitempty"`
	Description     string `yaml:"description,omitempty"`
	StopOnError     bool   `yaml:"stop_on_error,omitempty"`
	CaseInsensitive bool   `yaml:"case_insensitive,omitempty"`
	Requires        string `yaml:"requires,omitempty"`
}

// ScriptFile returns the script path relative to the suite directory.
func (c Case) ScriptFile() string {
	if c.Script != "" {
		return c.Script
	}
	return c.Name + ScriptExt
}

// ExpectedFile returns the expected transcript path relative to the suite directory.
func (c Case) ExpectedFile() string {
	return c.Name + ExpectedExt
}

// Suite is a set of cases rooted at Dir.
type Suite struct {
	Dir      string `yaml:"-"`
	Requires string `yaml:"requires,omitempty"`
	Cases    []Case `yaml:"cases"`
}

// LoadSuite reads dir/golden.yaml, or discovers *.cmd scripts when there is no
// manifest.
func LoadSuite(dir string) (*Suite, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		return discoverSuite(dir)
	}

	suite := &Suite{}
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	suite.Dir = dir
	seen := make(map[string]bool)
	for i, c := range suite.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("manifest case %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("manifest case %s listed twice", c.Name)
		}
		seen[c.Name] = true
	}
	return suite, nil
}

func discoverSuite(dir string) (*Suite, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ScriptExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	suite := &Suite{Dir: dir}
	for _, match := range matches {
		suite.Cases = append(suite.Cases, Case{Name: strings.TrimSuffix(filepath.Base(match), ScriptExt)})
	}
	return suite, nil
}

// Find returns the named case.
func (s *Suite) Find(name string) (Case, error) {
	for _, c := range s.Cases {
		if c.Name == name {
			return c, nil
		}
	}
	return Case{}, fmt.Errorf("test case not found: %s", name)
}

// Subset returns a suite holding only the named cases, in the order given.
// No names returns s itself.
func (s *Suite) Subset(names ...string) (*Suite, error) {
	if len(names) == 0 {
		return s, nil
	}
	sub := &Suite{Dir: s.Dir, Requires: s.Requires}
	for _, name := range names {
		c, err := s.Find(name)
		if err != nil {
			return nil, err
		}
		sub.Cases = append(sub.Cases, c)
	}
	return sub, nil
}

// Path joins a suite-relative path onto the suite directory.
func (s *Suite) Path(rel string) string {
	return filepath.Join(s.Dir, rel)
}

// Enabled reports whether c applies to the running version.
func (s *Suite) Enabled(c Case) (bool, error) {
	for _, constraint := range []string{s.Requires, c.Requires} {
		if constraint == "" {
			continue
		}
		ok, err := version.Satisfies(constraint)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
