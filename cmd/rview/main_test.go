package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/rview/internal/config"
	"github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/internal/publish"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "counter fragment",
			args: []string{"render", "counter"},
			want: []string{
				`<div id="counter">`,
				`<p id="count" class="even">0</p>`,
				`<button id="dec" disabled>-</button>`,
			},
		},
		{
			name: "default example",
			args: []string{"render"},
			want: []string{`<div id="counter">`},
		},
		{
			name: "page",
			args: []string{"render", "todo", "--page", "--title", "Todo"},
			want: []string{
				"<!DOCTYPE html>",
				"<title>Todo</title>",
				`<ul id="todos"><li id="todo-1">`,
				`<p id="remaining">2 items left</p>`,
			},
		},
		{
			name: "svg",
			args: []string{"render", "chart"},
			want: []string{`<svg xmlns="http://www.w3.org/2000/svg" id="chart"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %s:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	_, stderr, err := run(t, "render", "chart", "--out", path)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `id="chart"`) {
		t.Errorf("file content = %s", data)
	}
	if !strings.Contains(stderr, "Rendered chart") {
		t.Errorf("stderr = %q", stderr)
	}
}

type recordingS3 struct {
	cfg    config.PublishConfig
	bucket string
	key    string
	body   string
	err    error
}

func (r *recordingS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.bucket, r.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	r.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func fakePublish(t *testing.T, rec *recordingS3) {
	t.Helper()
	orig := publishClient
	publishClient = func(cfg config.PublishConfig) publish.PutObjectAPI {
		rec.cfg = cfg
		return rec
	}
	t.Cleanup(func() { publishClient = orig })
}

func TestRenderPublish(t *testing.T) {
	rec := &recordingS3{}
	fakePublish(t, rec)

	_, stderr, err := run(t, "render", "todo", "--page", "--out", "s3://site/demo/", "--region", "eu-west-1")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if rec.bucket != "site" || rec.key != "demo/index.html" {
		t.Errorf("uploaded to %s/%s", rec.bucket, rec.key)
	}
	if rec.cfg.Region != "eu-west-1" {
		t.Errorf("region = %q", rec.cfg.Region)
	}
	if !strings.Contains(rec.body, `<ul id="todos">`) {
		t.Errorf("body = %s", rec.body)
	}
	if !strings.Contains(stderr, "Published todo to s3://site/demo/index.html") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRenderPublishError(t *testing.T) {
	fakePublish(t, &recordingS3{err: stderrors.New("access denied")})

	_, _, err := run(t, "render", "counter", "--out", "s3://site/counter.html")
	if errors.Code(err) != "E062" {
		t.Fatalf("error = %v, want E062", err)
	}
}

func TestServeListenError(t *testing.T) {
	_, _, err := run(t, "serve", "--addr", "localhost:-1")
	if errors.Code(err) != "E063" {
		t.Fatalf("error = %v, want E063", err)
	}
}

func TestRenderUnknownExample(t *testing.T) {
	_, _, err := run(t, "render", "nope")
	if errors.Code(err) != "E061" {
		t.Fatalf("error = %v, want E061", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "examples")
	if errors.Code(err) != "E060" {
		t.Fatalf("error = %v, want E060", err)
	}
}

func TestHydrateCheck(t *testing.T) {
	for _, name := range []string{"counter", "todo", "chart"} {
		t.Run(name, func(t *testing.T) {
			out, _, err := run(t, "hydrate-check", name)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if !strings.Contains(out, name+" hydrated") {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestHydrateCheckFile(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "chart.html")
	if _, _, err := run(t, "render", "chart", "--page", "--out", page); err != nil {
		t.Fatal(err)
	}

	if _, _, err := run(t, "hydrate-check", "chart", "--file", page); err != nil {
		t.Errorf("hydrating the chart page: %v", err)
	}

	_, _, err := run(t, "hydrate-check", "counter", "--file", page)
	if errors.Code(err) != "E041" {
		t.Errorf("error = %v, want E041", err)
	}

	_, _, err = run(t, "hydrate-check", "counter", "--file", filepath.Join(dir, "missing.html"))
	if errors.Code(err) != "E060" {
		t.Errorf("error = %v, want E060", err)
	}
}

func TestMetricsDump(t *testing.T) {
	_, stderr, err := run(t, "--metrics", "render", "chart")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(stderr, `rview_views_built_total{backend="ssr",mode="build"}`) {
		t.Errorf("metrics missing from stderr:\n%s", stderr)
	}
}

func TestExamples(t *testing.T) {
	out, _, err := run(t, "examples")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"chart", "counter", "todo"} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing %s:\n%s", name, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("version --short = %q", out)
	}
}
