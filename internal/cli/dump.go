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
	"io"
	"strings"

	"github.com/bufbuild/protoast"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

// dumpNode is the YAML representation of a node of the AST.
type dumpNode struct {
	Kind     string      `yaml:"kind"`
	Name     string      `yaml:"name"`
	FQN      string      `yaml:"fqn,omitempty"`
	Type     string      `yaml:"type,omitempty"`
	Number   int32       `yaml:"number,omitempty"`
	Comment  string      `yaml:"comment,omitempty"`
	Options  string      `yaml:"options,omitempty"`
	Children []*dumpNode `yaml:"children,omitempty"`
}

func newDumpCommand(root *rootCommand) *cobra.Command {
	var withoutComments bool
	cmd := &cobra.Command{
		Use:   "dump [patterns...]",
		Short: "Write the node tree of the matching .proto files as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := root.settings
			if len(args) > 0 {
				settings.Include = args
			}
			if cmd.Flags().Changed("without-comments") {
				settings.Dump.WithoutComments = withoutComments
			}
			var options []protoast.BuildOption
			if settings.Dump.WithoutComments {
				options = append(options, protoast.WithoutComments())
			}
			ast, err := loadAST(cmd.Context(), root.logger, settings, options...)
			if err != nil {
				return err
			}
			return dump(cmd.OutOrStdout(), ast)
		},
	}
	cmd.Flags().BoolVar(&withoutComments, "without-comments", false, "do not include comments")
	return cmd
}

// dump writes the tree of every build target file to the writer.
func dump(writer io.Writer, ast *protoast.AST) error {
	root := &dumpNode{}
	visitor := &dumpVisitor{parent: root}
	for _, file := range ast.TargetFiles() {
		if err := protoast.Walk(visitor, file); err != nil {
			return err
		}
	}
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(root.Children); err != nil {
		return err
	}
	return encoder.Close()
}

// dumpVisitor adds a dumpNode for each visited node to the children of parent.
type dumpVisitor struct {
	parent *dumpNode
}

func (d *dumpVisitor) add(node protoast.Node, comments protoast.Comments) protoast.Visitor {
	child := &dumpNode{
		Kind:    node.Kind().String(),
		Name:    node.Name().String(),
		FQN:     node.FullyQualifiedName(),
		Comment: strings.TrimSpace(comments.Leading),
	}
	d.parent.Children = append(d.parent.Children, child)
	return &dumpVisitor{parent: child}
}

func (d *dumpVisitor) VisitPackage(pkg *protoast.Package) (protoast.Visitor, error) {
	return d.add(pkg, pkg.Comments()), nil
}

func (d *dumpVisitor) VisitFile(file *protoast.File) (protoast.Visitor, error) {
	visitor := d.add(file, file.Comments())
	d.last().Options = optionsString(file.Descriptor().GetOptions())
	return visitor, nil
}

func (d *dumpVisitor) VisitMessage(message *protoast.Message) (protoast.Visitor, error) {
	visitor := d.add(message, message.Comments())
	d.last().Options = optionsString(message.Descriptor().GetOptions())
	return visitor, nil
}

func (d *dumpVisitor) VisitEnum(enum *protoast.Enum) (protoast.Visitor, error) {
	return d.add(enum, enum.Comments()), nil
}

func (d *dumpVisitor) VisitEnumValue(value *protoast.EnumValue) (protoast.Visitor, error) {
	visitor := d.add(value, value.Comments())
	d.last().Number = value.Number()
	return visitor, nil
}

func (d *dumpVisitor) VisitField(field protoast.Field) (protoast.Visitor, error) {
	visitor := d.add(field, field.Comments())
	child := d.last()
	child.Kind = field.FieldKind().String() + " " + child.Kind
	child.Type = fieldTypeString(field)
	child.Number = field.Number()
	child.Options = optionsString(field.Descriptor().GetOptions())
	return visitor, nil
}

func (d *dumpVisitor) VisitOneof(oneof *protoast.Oneof) (protoast.Visitor, error) {
	return d.add(oneof, oneof.Comments()), nil
}

func (d *dumpVisitor) VisitService(service *protoast.Service) (protoast.Visitor, error) {
	return d.add(service, service.Comments()), nil
}

func (d *dumpVisitor) VisitMethod(method *protoast.Method) (protoast.Visitor, error) {
	visitor := d.add(method, method.Comments())
	d.last().Type = method.Input().FullyQualifiedName() + " -> " + method.Output().FullyQualifiedName()
	return visitor, nil
}

func (d *dumpVisitor) VisitExtension(extension *protoast.Extension) (protoast.Visitor, error) {
	visitor := d.add(extension, extension.Comments())
	child := d.last()
	child.Type = extension.ValueType().String() + " extends " + extension.Extendee().FullyQualifiedName()
	child.Number = extension.Number()
	return visitor, nil
}

func (d *dumpVisitor) last() *dumpNode {
	return d.parent.Children[len(d.parent.Children)-1]
}

// fieldTypeString returns the type of the field as it would be written in a .proto file.
func fieldTypeString(field protoast.Field) string {
	value := field.ValueType().String()
	switch field := field.(type) {
	case protoast.MapField:
		return "map<" + field.Key().String() + ", " + value + ">"
	case protoast.RepeatedField:
		return "repeated " + value
	default:
		return value
	}
}

// optionsString returns the options in the text format, or "" if none are set.
func optionsString(options proto.Message) string {
	if !options.ProtoReflect().IsValid() {
		return ""
	}
	data, err := prototext.MarshalOptions{}.Marshal(options)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
