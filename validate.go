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
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

const allSupportedFeaturesMask = uint64(
	pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL |
		pluginpb.CodeGeneratorResponse_FEATURE_SUPPORTS_EDITIONS,
)

// validateFileDescriptorProtos validates the input of Build.
//
// The names and dependencies of the files must be valid paths, the names must be unique, and
// every target must be a valid, unique path naming one of the files.
func validateFileDescriptorProtos(fileDescriptorProtos []*descriptorpb.FileDescriptorProto, targets []string) error {
	names, err := validateFileDescriptorProtoNames("file", fileDescriptorProtos)
	if err != nil {
		return err
	}
	return validateTargets("target", targets, names, "file")
}

// validateCodeGeneratorRequest validates a CodeGeneratorRequest, see NewRequest.
func validateCodeGeneratorRequest(request *pluginpb.CodeGeneratorRequest) (retErr error) {
	defer func() {
		if retErr != nil {
			retErr = fmt.Errorf("CodeGeneratorRequest: %w", retErr)
		}
	}()

	if request == nil {
		return errors.New("nil")
	}
	if len(request.GetProtoFile()) == 0 {
		return errors.New("proto_file: empty")
	}
	if len(request.GetFileToGenerate()) == 0 {
		return errors.New("file_to_generate: empty")
	}
	protoFileNames, err := validateFileDescriptorProtoNames("proto_file", request.GetProtoFile())
	if err != nil {
		return err
	}
	if err := validateTargets("file_to_generate", request.GetFileToGenerate(), protoFileNames, "proto_file"); err != nil {
		return err
	}
	if len(request.GetSourceFileDescriptors()) > 0 {
		sourceFileNames, err := validateFileDescriptorProtoNames("source_file_descriptors", request.GetSourceFileDescriptors())
		if err != nil {
			return err
		}
		if err := validateTargets("file_to_generate", request.GetFileToGenerate(), sourceFileNames, "source_file_descriptors"); err != nil {
			return err
		}
		if len(sourceFileNames) != len(request.GetFileToGenerate()) {
			return errors.New("source_file_descriptors: contains paths that are not within file_to_generate")
		}
	}
	if version := request.GetCompilerVersion(); version != nil {
		if err := validateCompilerVersion(version); err != nil {
			return fmt.Errorf("compiler_version: %w", err)
		}
	}
	return nil
}

// validateFileDescriptorProtoNames validates each FileDescriptorProto and returns the set of names.
func validateFileDescriptorProtoNames(fieldName string, fileDescriptorProtos []*descriptorpb.FileDescriptorProto) (map[string]struct{}, error) {
	names := make(map[string]struct{}, len(fileDescriptorProtos))
	for _, fileDescriptorProto := range fileDescriptorProtos {
		if fileDescriptorProto == nil {
			return nil, fmt.Errorf("%s: nil", fieldName)
		}
		name := fileDescriptorProto.GetName()
		if err := validateProtoPath(fieldName+".name", name); err != nil {
			return nil, err
		}
		if err := validateProtoPaths(fieldName+".dependency", fileDescriptorProto.GetDependency()); err != nil {
			return nil, err
		}
		if _, ok := names[name]; ok {
			return nil, fmt.Errorf("%s: duplicate path %q", fieldName, name)
		}
		names[name] = struct{}{}
	}
	return names, nil
}

func validateTargets(fieldName string, targets []string, names map[string]struct{}, namesFieldName string) error {
	if err := validateProtoPaths(fieldName, targets); err != nil {
		return err
	}
	for _, target := range targets {
		if _, ok := names[target]; !ok {
			return fmt.Errorf("%s: path %q is not contained within %s", fieldName, target, namesFieldName)
		}
	}
	return nil
}

func validateCompilerVersion(version *pluginpb.Version) error {
	if major := version.GetMajor(); major < 0 {
		return fmt.Errorf("major: negative: %d", int(major))
	}
	if minor := version.GetMinor(); minor < 0 {
		return fmt.Errorf("minor: negative: %d", int(minor))
	}
	if patch := version.GetPatch(); patch < 0 {
		return fmt.Errorf("patch: negative: %d", int(patch))
	}
	return nil
}

// validateAndNormalizeCodeGeneratorResponse validates the response and normalizes its files.
//
// If warningHandlerFunc is non-nil, unnormalized and duplicate file names are corrected and
// reported to it. Otherwise, they are errors.
func validateAndNormalizeCodeGeneratorResponse(
	response *pluginpb.CodeGeneratorResponse,
	warningHandlerFunc func(error),
) (retErr error) {
	defer func() {
		if retErr != nil {
			retErr = fmt.Errorf("CodeGeneratorResponse: %w", retErr)
		}
	}()

	files, err := mergeUnnamedResponseFiles(response.File)
	if err != nil {
		return err
	}
	files, err = normalizeResponseFileNames(files, warningHandlerFunc)
	if err != nil {
		return err
	}
	if len(files) != len(response.File) {
		response.File = files
	}

	supportedFeatures := response.GetSupportedFeatures()
	if supportedFeatures|allSupportedFeaturesMask != allSupportedFeaturesMask {
		return fmt.Errorf("supported_features: unknown CodeGeneratorResponse.Features: %s", strconv.FormatUint(supportedFeatures, 2))
	}
	if supportedFeatures&uint64(pluginpb.CodeGeneratorResponse_FEATURE_SUPPORTS_EDITIONS) != 0 {
		minimumEdition, maximumEdition := response.GetMinimumEdition(), response.GetMaximumEdition()
		switch {
		case minimumEdition == 0:
			return errors.New("supported_features: FEATURE_SUPPORTS_EDITIONS specified but no minimum_edition set")
		case maximumEdition == 0:
			return errors.New("supported_features: FEATURE_SUPPORTS_EDITIONS specified but no maximum_edition set")
		case minimumEdition > maximumEdition:
			return fmt.Errorf("minimum_edition %d is greater than maximum_edition %d", minimumEdition, maximumEdition)
		}
	}
	return nil
}

// mergeUnnamedResponseFiles appends the content of every file without a name to the
// previous file with a name.
//
// plugin.proto allows this for a streaming mode that is never used in practice.
func mergeUnnamedResponseFiles(files []*pluginpb.CodeGeneratorResponse_File) ([]*pluginpb.CodeGeneratorResponse_File, error) {
	if len(files) == 0 {
		return files, nil
	}
	if files[0].GetName() == "" {
		return nil, errors.New("file: first value had no name set")
	}
	merged := make([]*pluginpb.CodeGeneratorResponse_File, 0, len(files))
	for _, file := range files {
		if file.GetName() != "" {
			merged = append(merged, file)
			continue
		}
		if file.GetInsertionPoint() != "" {
			return nil, errors.New("file: empty name with non-empty insertion point")
		}
		if file.Content == nil {
			continue
		}
		previous := merged[len(merged)-1]
		previous.Content = proto.String(previous.GetContent() + file.GetContent())
	}
	return merged, nil
}

// normalizeResponseFileNames must be called after mergeUnnamedResponseFiles, as it assumes
// every file has a name.
func normalizeResponseFileNames(
	files []*pluginpb.CodeGeneratorResponse_File,
	warningHandlerFunc func(error),
) ([]*pluginpb.CodeGeneratorResponse_File, error) {
	seen := make(map[string]struct{}, len(files))
	result := make([]*pluginpb.CodeGeneratorResponse_File, 0, len(files))
	for _, file := range files {
		name := file.GetName()
		normalizedName, err := normalizePath("file", name)
		if err != nil {
			return nil, err
		}
		if name != normalizedName {
			if warningHandlerFunc == nil {
				return nil, fmt.Errorf("file: %w", newResponseFileNameError(name, normalizedName))
			}
			warningHandlerFunc(newResponseFileNameError(name, normalizedName))
			name = normalizedName
			file.Name = proto.String(name)
		}
		// Files with insertion points are expected to share the name of another file.
		if _, ok := seen[name]; ok && file.GetInsertionPoint() == "" {
			if warningHandlerFunc == nil {
				return nil, fmt.Errorf("file: %w", newResponseFileNameError(name, ""))
			}
			warningHandlerFunc(newResponseFileNameError(name, ""))
			continue
		}
		seen[name] = struct{}{}
		result = append(result, file)
	}
	return result, nil
}

// validateProtoPaths validates each path with validateProtoPath, and ensures that the paths are unique.
func validateProtoPaths(fieldName string, paths []string) error {
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if err := validateProtoPath(fieldName, path); err != nil {
			return err
		}
		if _, ok := seen[path]; ok {
			return fmt.Errorf("%s: duplicate path %q", fieldName, path)
		}
		seen[path] = struct{}{}
	}
	return nil
}

// validateProtoPath validates that the path is normalized and has .proto as the file extension.
func validateProtoPath(fieldName string, path string) error {
	normalizedPath, err := normalizePath(fieldName, path)
	if err != nil {
		return err
	}
	if path != normalizedPath {
		return fmt.Errorf("%s: path %q to be given as %q", fieldName, path, normalizedPath)
	}
	if filepath.Ext(path) != ".proto" {
		return fmt.Errorf("%s: path %q should have the .proto file extension", fieldName, path)
	}
	return nil
}

// normalizePath validates that the path is non-empty, relative, and does not jump context,
// and returns filepath.ToSlash(filepath.Clean(path)).
func normalizePath(fieldName string, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%s: path was empty", fieldName)
	}
	normalizedPath := filepath.ToSlash(filepath.Clean(path))
	if filepath.IsAbs(normalizedPath) {
		return "", fmt.Errorf("%s: path %q should be relative", fieldName, normalizedPath)
	}
	if normalizedPath == ".." || strings.HasPrefix(normalizedPath, "../") {
		return "", fmt.Errorf("%s: path %q should not jump context", fieldName, normalizedPath)
	}
	return normalizedPath, nil
}
