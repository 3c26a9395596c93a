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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bufbuild/protoast/internal/protocompileutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"gopkg.in/yaml.v3"
)

func TestDump(t *testing.T) {
	t.Parallel()

	dir := writeTestFiles(t)
	stdout, stderr, exitCode := testExecute(t, "dump", "-I", dir)
	require.Equal(t, 0, exitCode, stderr)

	var files []*dumpNode
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &files))
	require.Len(t, files, 3)
	a := findDumpNode(t, files, "foo/a.proto")
	require.Equal(t, "file", a.Kind)
	require.Equal(t, ".foo", a.FQN)
	message := findDumpNode(t, a.Children, "A")
	require.Equal(t, "A is a message.", message.Comment)
	counts := findDumpNode(t, message.Children, "counts")
	require.Equal(t, "map field", counts.Kind)
	require.Equal(t, "map<string, int32>", counts.Type)
	require.Equal(t, int32(1), counts.Number)
	enum := findDumpNode(t, a.Children, "E")
	require.Len(t, enum.Children, 2)

	stdout, stderr, exitCode = testExecute(t, "dump", "-I", dir, "--without-comments", "foo/a.proto")
	require.Equal(t, 0, exitCode, stderr)
	files = nil
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &files))
	require.Len(t, files, 1)
	message = findDumpNode(t, files[0].Children, "A")
	require.Empty(t, message.Comment)
}

func TestDumpSourceRetentionOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "opts", "o.proto")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(
		t,
		os.WriteFile(
			path,
			[]byte(`syntax = "proto3";
package opts;
import "google/protobuf/descriptor.proto";
extend google.protobuf.MessageOptions {
  string tag = 50000 [retention = RETENTION_SOURCE];
  string kept = 50001;
}
message A {
  option (tag) = "x";
  option (kept) = "y";
}
`),
			0o600,
		),
	)
	dumpA := func(args ...string) *dumpNode {
		stdout, stderr, exitCode := testExecute(t, append([]string{"dump", "-I", dir}, args...)...)
		require.Equal(t, 0, exitCode, stderr)
		var files []*dumpNode
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &files))
		require.Len(t, files, 1)
		return findDumpNode(t, files[0].Children, "A")
	}

	a := dumpA()
	require.Contains(t, a.Options, "[opts.kept]")
	require.NotContains(t, a.Options, "[opts.tag]")

	a = dumpA("--source-retention-options")
	require.Contains(t, a.Options, "[opts.kept]")
	require.Contains(t, a.Options, "[opts.tag]")
}

func TestImports(t *testing.T) {
	t.Parallel()

	dir := writeTestFiles(t)
	stdout, stderr, exitCode := testExecute(t, "imports", "-I", dir)
	require.Equal(t, 0, exitCode, stderr)
	require.Equal(t, "foo/a.proto: foo/b.proto\n", stdout)

	_, stderr, exitCode = testExecute(t, "imports", "-I", dir, "--fail")
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr, "1 unused imports")

	stdout, _, exitCode = testExecute(t, "imports", "-I", dir, "--fail", "--exclude", "foo/a.proto")
	require.Equal(t, 0, exitCode)
	require.Empty(t, stdout)
}

func TestDescriptorSet(t *testing.T) {
	t.Parallel()

	dir := writeTestFiles(t)
	fileDescriptorProtos, err := protocompileutil.CompileDirs(context.Background(), []string{dir}, []string{"foo/a.proto"})
	require.NoError(t, err)
	data, err := proto.Marshal(&descriptorpb.FileDescriptorSet{File: fileDescriptorProtos})
	require.NoError(t, err)
	descriptorSetPath := filepath.Join(t.TempDir(), "image.binpb")
	require.NoError(t, os.WriteFile(descriptorSetPath, data, 0o600))

	stdout, stderr, exitCode := testExecute(t, "imports", "--descriptor-set", descriptorSetPath, "foo/*.proto")
	require.Equal(t, 0, exitCode, stderr)
	require.Equal(t, "foo/a.proto: foo/b.proto\n", stdout)
}

func TestNoMatches(t *testing.T) {
	t.Parallel()

	dir := writeTestFiles(t)
	_, stderr, exitCode := testExecute(t, "dump", "-I", dir, "bar/**/*.proto")
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr, errNoTargets.Error())
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	settings, err := LoadSettings("")
	require.NoError(t, err)
	require.Equal(t, []string{"."}, settings.ImportPaths)
	require.Equal(t, []string{"**/*.proto"}, settings.Include)
	require.Equal(t, "info", settings.Log.Level)
	require.Equal(t, "text", settings.Log.Format)
	require.False(t, settings.Imports.Fail)

	path := filepath.Join(t.TempDir(), "protoast.toml")
	require.NoError(
		t,
		os.WriteFile(
			path,
			[]byte(`import_paths = ["proto"]
exclude = ["**/internal/**"]

[log]
level = "debug"

[imports]
fail = true
`),
			0o600,
		),
	)
	settings, err = LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, []string{"proto"}, settings.ImportPaths)
	require.Equal(t, []string{"**/*.proto"}, settings.Include)
	require.Equal(t, []string{"**/internal/**"}, settings.Exclude)
	require.Equal(t, "debug", settings.Log.Level)
	require.Equal(t, "text", settings.Log.Format)
	require.True(t, settings.Imports.Fail)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	t.Parallel()

	dir := writeTestFiles(t)
	path := filepath.Join(t.TempDir(), "protoast.toml")
	require.NoError(
		t,
		os.WriteFile(
			path,
			[]byte("import_paths = ["+`"`+filepath.ToSlash(dir)+`"`+"]\n[imports]\nfail = true\n"),
			0o600,
		),
	)
	_, _, exitCode := testExecute(t, "imports", "--config", path)
	require.Equal(t, 1, exitCode)
	_, _, exitCode = testExecute(t, "imports", "--config", path, "--fail=false")
	require.Equal(t, 0, exitCode)
	_, stderr, exitCode := testExecute(t, "imports", "--config", path, "--log-format", "xml")
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr, `unknown log format`)
}

func testExecute(t *testing.T, args ...string) (string, string, int) {
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	exitCode := Execute(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), exitCode
}

func writeTestFiles(t *testing.T) string {
	dir := t.TempDir()
	pathToContent := map[string]string{
		"foo/a.proto": `syntax = "proto3";
package foo;
import "foo/b.proto";
// A is a message.
message A {
  map<string, int32> counts = 1;
  E e = 2;
}
enum E {
  E_UNSPECIFIED = 0;
  E_ONE = 1;
}
`,
		"foo/b.proto": `syntax = "proto3"; package foo; message B {}`,
		"foo/c.proto": `syntax = "proto3"; package foo; import "foo/b.proto"; message C { B b = 1; }`,
	}
	for path, content := range pathToContent {
		path = filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func findDumpNode(t *testing.T, nodes []*dumpNode, name string) *dumpNode {
	for _, node := range nodes {
		if node.Name == name {
			return node
		}
	}
	require.Failf(t, "node not found", "%q", name)
	return nil
}
