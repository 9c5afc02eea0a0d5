// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package jvm

import (
	"os"

	"gopkg.in/yaml.v2"

	"jitdiff/errors"
)

// JavaHomeEnv is consulted when no environment is configured explicitly.
const JavaHomeEnv = "JAVA_HOME"

// fileConfig is the schema of an environment configuration file:
//
//	environments:
//	  - root: /usr/lib/jvm/jdk-11
//	    options: ["-XX:TieredStopAtLevel=1"]
//	  - root: /usr/lib/jvm/jdk-17
type fileConfig struct {
	Environments []EnvSpec `yaml:"environments"`
}

// LoadConfig reads environment specs from the YAML file at path.
func LoadConfig(path string) ([]EnvSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Msg: "failed to read environment config", Cause: errors.Wrap(err, "read")}
	}
	return ParseConfig(b)
}

// ParseConfig parses an environment configuration document. Unknown keys are
// rejected so that typos such as "option:" do not silently drop flags.
func ParseConfig(b []byte) ([]EnvSpec, error) {
	var cfg fileConfig
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, &ConfigurationError{Msg: "bad environment config", Cause: errors.Wrap(err, "yaml")}
	}
	if len(cfg.Environments) == 0 {
		return nil, configErrorf("environment config lists no environments")
	}
	return cfg.Environments, nil
}

// SpecsFromHomes builds option-less specs from installation roots.
func SpecsFromHomes(homes []string) []EnvSpec {
	specs := make([]EnvSpec, 0, len(homes))
	for _, h := range homes {
		specs = append(specs, EnvSpec{Root: h})
	}
	return specs
}

// SpecsFromEnv falls back to $JAVA_HOME as a single environment. getenv is
// usually os.Getenv.
func SpecsFromEnv(getenv func(string) string) ([]EnvSpec, error) {
	home := getenv(JavaHomeEnv)
	if home == "" {
		return nil, configErrorf("no environments configured and required environment variable %s is not set", JavaHomeEnv)
	}
	return []EnvSpec{{Root: home}}, nil
}
