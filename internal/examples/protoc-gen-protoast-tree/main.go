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

// Package main implements a plugin that outputs the node tree of each file, one node per
// line, indented by depth.
//
// Pass "comments" as the parameter to include the leading comments of each node.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bufbuild/protoast"
)

func main() {
	protoast.Main(protoast.GeneratorFunc(generate))
}

func generate(
	_ context.Context,
	_ protoast.GeneratorEnv,
	responseWriter *protoast.ResponseWriter,
	request *protoast.Request,
	ast *protoast.AST,
) error {
	responseWriter.SetFeatureProto3Optional()

	var withComments bool
	switch parameter := request.Parameter(); parameter {
	case "":
	case "comments":
		withComments = true
	default:
		responseWriter.SetError(fmt.Sprintf("unknown parameter %q", parameter))
		return nil
	}
	for _, file := range ast.TargetFiles() {
		builder := &strings.Builder{}
		visitor := &treeVisitor{builder: builder, withComments: withComments}
		if err := protoast.Walk(visitor, file); err != nil {
			return err
		}
		responseWriter.AddFileFor(file, ".tree.txt", builder.String())
	}
	return nil
}

type treeVisitor struct {
	builder      *strings.Builder
	depth        int
	withComments bool
}

func (t *treeVisitor) write(node protoast.Node, comments protoast.Comments, detail string) protoast.Visitor {
	indent := strings.Repeat("  ", t.depth)
	if t.withComments && comments.Leading != "" {
		for _, line := range strings.Split(strings.TrimSuffix(comments.Leading, "\n"), "\n") {
			_, _ = fmt.Fprintf(t.builder, "%s//%s\n", indent, line)
		}
	}
	_, _ = fmt.Fprintf(t.builder, "%s%s %s", indent, node.Kind(), node.Name())
	if detail != "" {
		_, _ = fmt.Fprintf(t.builder, " (%s)", detail)
	}
	t.builder.WriteString("\n")
	return &treeVisitor{builder: t.builder, depth: t.depth + 1, withComments: t.withComments}
}

func (t *treeVisitor) VisitPackage(pkg *protoast.Package) (protoast.Visitor, error) {
	return t.write(pkg, pkg.Comments(), ""), nil
}

func (t *treeVisitor) VisitFile(file *protoast.File) (protoast.Visitor, error) {
	return t.write(file, file.Comments(), file.Syntax().String()), nil
}

func (t *treeVisitor) VisitMessage(message *protoast.Message) (protoast.Visitor, error) {
	return t.write(message, message.Comments(), ""), nil
}

func (t *treeVisitor) VisitEnum(enum *protoast.Enum) (protoast.Visitor, error) {
	return t.write(enum, enum.Comments(), ""), nil
}

func (t *treeVisitor) VisitEnumValue(value *protoast.EnumValue) (protoast.Visitor, error) {
	return t.write(value, value.Comments(), fmt.Sprint(value.Number())), nil
}

func (t *treeVisitor) VisitField(field protoast.Field) (protoast.Visitor, error) {
	return t.write(field, field.Comments(), fmt.Sprintf("%s %s = %d", field.FieldKind(), field.ValueType(), field.Number())), nil
}

func (t *treeVisitor) VisitOneof(oneof *protoast.Oneof) (protoast.Visitor, error) {
	detail := "real"
	if oneof.IsSynthetic() {
		detail = "synthetic"
	}
	return t.write(oneof, oneof.Comments(), detail), nil
}

func (t *treeVisitor) VisitService(service *protoast.Service) (protoast.Visitor, error) {
	return t.write(service, service.Comments(), ""), nil
}

func (t *treeVisitor) VisitMethod(method *protoast.Method) (protoast.Visitor, error) {
	detail := method.Input().FullyQualifiedName() + " -> " + method.Output().FullyQualifiedName()
	return t.write(method, method.Comments(), detail), nil
}

func (t *treeVisitor) VisitExtension(extension *protoast.Extension) (protoast.Visitor, error) {
	detail := "extends " + extension.Extendee().FullyQualifiedName()
	return t.write(extension, extension.Comments(), detail), nil
}
