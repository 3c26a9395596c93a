// Copyright 2024 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"os"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
)

// Settings are the settings of the protoast command read from its TOML file.
//
// Flags given on the command line take precedence.
type Settings struct {
	// ImportPaths are the directories .proto files are looked up in.
	ImportPaths []string `toml:"import_paths" default:"[\".\"]"`
	// Include are the doublestar patterns of the build target files, relative to the import paths.
	Include []string `toml:"include" default:"[\"**/*.proto\"]"`
	// Exclude are the doublestar patterns of files to skip.
	Exclude []string `toml:"exclude"`
	// DescriptorSet is the path of a binary FileDescriptorSet to read instead of compiling.
	DescriptorSet string `toml:"descriptor_set"`
	// SourceRetentionOptions keeps the options declared with retention = RETENTION_SOURCE
	// when compiling. They are stripped by default, as protoc does for plugins.
	SourceRetentionOptions bool     `toml:"source_retention_options" default:"false"`
	Log                    *Log     `toml:"log" default:"{}"`
	Dump                   *Dump    `toml:"dump" default:"{}"`
	Imports                *Imports `toml:"imports" default:"{}"`
}

// Log contains the logging settings.
type Log struct {
	Level  string `toml:"level" default:"info"`
	Format string `toml:"format" default:"text"`
}

// Dump contains the settings of the dump command.
type Dump struct {
	WithoutComments bool `toml:"without_comments" default:"false"`
}

// Imports contains the settings of the imports command.
type Imports struct {
	Fail bool `toml:"fail" default:"false"`
}

// LoadSettings loads the settings from the given TOML file.
//
// If filename is empty, the default settings are returned.
func LoadSettings(filename string) (*Settings, error) {
	var settings Settings

	if filename != "" {
		file, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		if err := toml.Unmarshal(file, &settings); err != nil {
			return nil, err
		}
	}

	defaultSettings, err := loadDefaultSettings()
	if err != nil {
		return nil, err
	}

	if err := mergo.Merge(&settings, defaultSettings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func loadDefaultSettings() (*Settings, error) {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		return nil, err
	}

	return s, nil
}
