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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// Generator is the interface implemented by protoc plugins built on an AST.
type Generator interface {
	// Generate adds the generated files for the AST to the response.
	//
	// The AST is built from the CodeGeneratorRequest, with file_to_generate as the build targets.
	//
	// If an error is returned, it is treated as an error of the plugin itself, and the plugin
	// exits with a non-zero exit code. Problems with the input .proto files, for example a
	// missing option, should be reported with ResponseWriter.SetError instead.
	Generate(
		ctx context.Context,
		generatorEnv GeneratorEnv,
		responseWriter *ResponseWriter,
		request *Request,
		ast *AST,
	) error
}

// GeneratorFunc is a function that implements Generator.
type GeneratorFunc func(context.Context, GeneratorEnv, *ResponseWriter, *Request, *AST) error

// Generate implements Generator.
func (g GeneratorFunc) Generate(
	ctx context.Context,
	generatorEnv GeneratorEnv,
	responseWriter *ResponseWriter,
	request *Request,
	ast *AST,
) error {
	return g(ctx, generatorEnv, responseWriter, request, ast)
}

// Main simplifies the authoring of main functions to invoke a Generator.
//
// Main handles interrupt signals, and exits with a non-zero exit code if the Generator
// returns an error.
//
//	func main() {
//	  protoast.Main(protoast.GeneratorFunc(generate))
//	}
func Main(generator Generator, options ...MainOption) {
	runOptions := newRunOptions()
	for _, option := range options {
		option.applyMainOption(runOptions)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(
		ctx,
		Env{
			Args:    os.Args[1:],
			Environ: os.Environ(),
			Stdin:   os.Stdin,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		},
		generator,
		runOptions,
	)
	cancel()
	if err == nil {
		return
	}
	exitError := &exec.ExitError{}
	if errors.As(err, &exitError) {
		// The message was already printed through stderr.
		os.Exit(exitError.ExitCode())
	}
	if errString := err.Error(); errString != "" {
		_, _ = fmt.Fprintln(os.Stderr, errString)
	}
	os.Exit(1)
}

// Run runs the plugin using the Generator for the given Env.
//
// This is the function that Main calls. Run gives you control over stdio, and does not handle
// interrupts. Run is useful when writing plugin tests.
func Run(ctx context.Context, env Env, generator Generator, options ...RunOption) error {
	runOptions := newRunOptions()
	for _, option := range options {
		option.applyRunOption(runOptions)
	}
	return run(ctx, env, generator, runOptions)
}

// *** PRIVATE ***

func run(ctx context.Context, env Env, generator Generator, runOptions *runOptions) error {
	switch len(env.Args) {
	case 0:
	case 1:
		if runOptions.version != "" && env.Args[0] == "--version" {
			_, err := fmt.Fprintln(env.Stdout, runOptions.version)
			return err
		}
		return newUnknownArgumentsError(env.Args)
	default:
		return newUnknownArgumentsError(env.Args)
	}

	if runOptions.warningHandlerFunc == nil {
		runOptions.warningHandlerFunc = func(err error) { _, _ = fmt.Fprintln(env.Stderr, err.Error()) }
	}

	input, err := io.ReadAll(env.Stdin)
	if err != nil {
		return err
	}
	codeGeneratorRequest := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(input, codeGeneratorRequest); err != nil {
		return err
	}
	request, err := NewRequest(codeGeneratorRequest)
	if err != nil {
		return err
	}
	ast, err := buildFromRequest(request, &runOptions.buildOptions)
	if err != nil {
		return err
	}
	responseWriter := newResponseWriter(runOptions.warningHandlerFunc)
	generatorEnv := GeneratorEnv{
		Environ: env.Environ,
		Stderr:  env.Stderr,
	}
	if err := generator.Generate(ctx, generatorEnv, responseWriter, request, ast); err != nil {
		return err
	}
	codeGeneratorResponse, err := responseWriter.toCodeGeneratorResponse()
	if err != nil {
		return err
	}
	data, err := proto.Marshal(codeGeneratorResponse)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
