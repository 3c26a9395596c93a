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

package protoast

import (
	"fmt"

	"google.golang.org/protobuf/types/pluginpb"
)

// CompilerVersion is the version of the compiler that produced a CodeGeneratorRequest.
type CompilerVersion struct {
	// Major is always >= 0.
	Major int
	// Minor is always >= 0.
	Minor int
	// Patch is always >= 0.
	Patch int
	// Suffix is empty for mainline releases.
	Suffix string
}

// NewCompilerVersion returns a new CompilerVersion for the *pluginpb.Version.
//
// If version is nil, this returns nil.
func NewCompilerVersion(version *pluginpb.Version) (*CompilerVersion, error) {
	if version == nil {
		return nil, nil
	}
	if err := validateCompilerVersion(version); err != nil {
		return nil, fmt.Errorf("compiler_version: %w", err)
	}
	return &CompilerVersion{
		Major:  int(version.GetMajor()),
		Minor:  int(version.GetMinor()),
		Patch:  int(version.GetPatch()),
		Suffix: version.GetSuffix(),
	}, nil
}

// String returns "Major.Minor.Patch[-Suffix]". Compilers with a major version above 3 dropped
// the patch version from their releases, so "Major.Minor[-Suffix]" is returned for those when
// the patch version is 0.
//
// If the CompilerVersion is nil, this returns empty.
func (c *CompilerVersion) String() string {
	if c == nil {
		return ""
	}
	value := fmt.Sprintf("%d.%d.%d", c.Major, c.Minor, c.Patch)
	if c.Major > 3 && c.Patch == 0 {
		value = fmt.Sprintf("%d.%d", c.Major, c.Minor)
	}
	if c.Suffix != "" {
		return value + "-" + c.Suffix
	}
	return value
}
