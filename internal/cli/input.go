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
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bufbuild/protoast"
	"github.com/bufbuild/protoast/internal/protocompileutil"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

var errNoTargets = errors.New("no .proto files matched")

// loadAST builds the AST for the settings.
//
// The build targets are either compiled from the files matching the include patterns, or
// read from the descriptor set.
func loadAST(
	ctx context.Context,
	logger logrus.FieldLogger,
	settings *Settings,
	options ...protoast.BuildOption,
) (*protoast.AST, error) {
	options = append(
		options,
		protoast.WithWarningHandler(func(err error) { logger.Warn(err.Error()) }),
	)
	if settings.DescriptorSet != "" {
		return loadDescriptorSet(logger, settings, options...)
	}
	paths, err := matchPaths(settings)
	if err != nil {
		return nil, err
	}
	var compileOptions []protocompileutil.CompileOption
	if settings.SourceRetentionOptions {
		compileOptions = append(compileOptions, protocompileutil.WithSourceRetentionOptions())
	}
	logger.WithField("files", len(paths)).Debug("compiling")
	fileDescriptorProtos, err := protocompileutil.CompileDirs(ctx, settings.ImportPaths, paths, compileOptions...)
	if err != nil {
		return nil, err
	}
	return protoast.Build(fileDescriptorProtos, paths, options...)
}

func loadDescriptorSet(
	logger logrus.FieldLogger,
	settings *Settings,
	options ...protoast.BuildOption,
) (*protoast.AST, error) {
	data, err := os.ReadFile(settings.DescriptorSet)
	if err != nil {
		return nil, err
	}
	fileDescriptorSet := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(data, fileDescriptorSet); err != nil {
		return nil, fmt.Errorf("%s: %w", settings.DescriptorSet, err)
	}
	var targets []string
	for _, fileDescriptorProto := range fileDescriptorSet.GetFile() {
		matched, err := matchesSettings(settings, fileDescriptorProto.GetName())
		if err != nil {
			return nil, err
		}
		if matched {
			targets = append(targets, fileDescriptorProto.GetName())
		}
	}
	if len(targets) == 0 {
		return nil, errNoTargets
	}
	logger.WithField("files", len(fileDescriptorSet.GetFile())).Debug("read descriptor set")
	return protoast.BuildFromFileDescriptorSet(fileDescriptorSet, targets, options...)
}

// matchPaths returns the sorted paths of the files below the import paths matching the
// settings, relative to their import path.
func matchPaths(settings *Settings) ([]string, error) {
	seen := make(map[string]struct{})
	for _, importPath := range settings.ImportPaths {
		fsys := os.DirFS(importPath)
		for _, pattern := range settings.Include {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("include %q: %w", pattern, err)
			}
			for _, match := range matches {
				matched, err := matchesSettings(settings, match)
				if err != nil {
					return nil, err
				}
				if matched {
					seen[match] = struct{}{}
				}
			}
		}
	}
	if len(seen) == 0 {
		return nil, errNoTargets
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// matchesSettings returns true if the path matches an include pattern and no exclude pattern.
func matchesSettings(settings *Settings, path string) (bool, error) {
	included, err := matchesAny(settings.Include, path)
	if err != nil || !included {
		return false, err
	}
	excluded, err := matchesAny(settings.Exclude, path)
	return !excluded, err
}

func matchesAny(patterns []string, path string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
