// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// EnvVar names a config file loaded when --config is not given.
const EnvVar = "GOL_CONFIG"

// ProfileModes lists the accepted values of Config.Profile.
var ProfileModes = []string{"cpu", "mem", "block", "mutex", "goroutine", "trace"}

// 📚 Config holds defaults for every command line option. Flags given on
// the command line win over values loaded from a file.
type Config struct {
	Pre           string   `json:"pre,omitempty" yaml:"pre,omitempty" hcl:"pre,optional"`
	Line          string   `json:"line,omitempty" yaml:"line,omitempty" hcl:"line,optional"`
	Post          string   `json:"post,omitempty" yaml:"post,omitempty" hcl:"post,optional"`
	Imports       []string `json:"imports,omitempty" yaml:"imports,omitempty" hcl:"imports,optional"`
	ReadFilePaths bool     `json:"read_file_paths,omitempty" yaml:"read_file_paths,omitempty" hcl:"read_file_paths,optional"`
	KeepLineNo    bool     `json:"keep_line_no,omitempty" yaml:"keep_line_no,omitempty" hcl:"keep_line_no,optional"`
	Summary       bool     `json:"summary,omitempty" yaml:"summary,omitempty" hcl:"summary,optional"`
	Verbose       int      `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
	Profile       string   `json:"profile,omitempty" yaml:"profile,omitempty" hcl:"profile,optional"`
	ProfileDir    string   `json:"profile_dir,omitempty" yaml:"profile_dir,omitempty" hcl:"profile_dir,optional"`

	location string
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Verbose < 0 {
		return errors.Errorf("verbose must not be negative, got %d", cfg.Verbose)
	}
	if cfg.Profile != "" && !validProfile(cfg.Profile) {
		return errors.Errorf("unknown profile mode %q (want one of %s)", cfg.Profile, strings.Join(ProfileModes, ", "))
	}
	for i, imp := range cfg.Imports {
		if strings.TrimSpace(imp) == "" {
			return errors.Errorf("imports[%d] is empty", i)
		}
	}
	return nil
}

func validProfile(mode string) bool {
	for _, m := range ProfileModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Location is the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a short description of the config
func (cfg *Config) String() string {
	set := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return "set"
	}
	return fmt.Sprintf("pre=%s line=%s post=%s imports=%d keep_line_no=%t read_file_paths=%t",
		set(cfg.Pre), set(cfg.Line), set(cfg.Post), len(cfg.Imports), cfg.KeepLineNo, cfg.ReadFilePaths)
}
