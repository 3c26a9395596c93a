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

// Package main implements a very simple plugin that just outputs text files
// with the names of the top-level messages in each file, along with the messages
// they depend on.
//
// Example: if a/b.proto had top-level messages C, D, and C had a field of type D, the file
// "a/b.txt" would be outputted, containing "C\nD <- C\n".
package main

import (
	"context"
	"strings"

	"github.com/bufbuild/protoast"
)

const version = "0.0.1"

func main() {
	protoast.Main(protoast.GeneratorFunc(generate), protoast.WithVersion(version))
}

func generate(
	_ context.Context,
	_ protoast.GeneratorEnv,
	responseWriter *protoast.ResponseWriter,
	_ *protoast.Request,
	ast *protoast.AST,
) error {
	// Set the flag indicating that we support proto3 optionals. We don't even use them in this
	// plugin, but protoc will error if it encounters a proto3 file with an optional but the
	// plugin has not indicated it will support it.
	responseWriter.SetFeatureProto3Optional()

	for _, file := range ast.TargetFiles() {
		var lines []string
		for _, message := range file.Messages() {
			line := string(message.Name())
			if dependents := message.Dependents(); len(dependents) > 0 {
				names := make([]string, len(dependents))
				for i, dependent := range dependents {
					names[i] = string(dependent.Name())
				}
				line += " <- " + strings.Join(names, ", ")
			}
			lines = append(lines, line)
		}
		responseWriter.AddFileFor(file, ".txt", strings.Join(lines, "\n")+"\n")
	}

	return nil
}
