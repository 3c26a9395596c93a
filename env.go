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

import "io"

// Env is the environment a plugin runs within.
//
// Main uses os.Args[1:], os.Environ, os.Stdin, os.Stdout, and os.Stderr.
type Env struct {
	// Args are the program arguments, not including the program name.
	Args []string
	// Environ are the environment variables.
	Environ []string
	// Stdin is where the CodeGeneratorRequest is read from.
	Stdin io.Reader
	// Stdout is where the CodeGeneratorResponse is written to.
	Stdout io.Writer
	// Stderr is where warnings are written to by default.
	Stderr io.Writer
}

// GeneratorEnv is the environment a Generator runs within.
//
// A Generator does not have access to stdin, stdout, or the args, as these are controlled by Run.
type GeneratorEnv struct {
	// Environ are the environment variables.
	Environ []string
	// Stderr is the stderr of the plugin.
	Stderr io.Writer
}
