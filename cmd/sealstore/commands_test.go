package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/sealstore/node"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	return got, nil
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	initFile := writeFile(t, dir, "state.yaml", `
title: draft
user:
  name: ada
  age: 36
tags: [a, b, c]
`)
	first := writeFile(t, dir, "first.yaml", `
user:
  name: grace
`)
	second := writeFile(t, dir, "second.json", `{"tags": ["z"]}`)

	got, err := runCmd(t, "apply", "--init", initFile, "--update", first, "--update", second)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got["title"] != "draft" {
		t.Errorf("title = %v, want draft", got["title"])
	}
	user := got["user"].(map[string]any)
	if user["name"] != "grace" {
		t.Errorf("user.name = %v, want grace", user["name"])
	}
	if _, ok := user["age"]; ok {
		t.Error("user.age should be dropped in replace mode")
	}
	if tags := got["tags"].([]any); len(tags) != 1 || tags[0] != "z" {
		t.Errorf("tags = %v, want [z]", tags)
	}
}

func TestApply_PreserveMode(t *testing.T) {
	dir := t.TempDir()
	initFile := writeFile(t, dir, "state.yaml", "user:\n  name: ada\n  age: 36\n")
	update := writeFile(t, dir, "update.yaml", "user:\n  name: grace\n")

	got, err := runCmd(t, "apply", "--init", initFile, "--update", update, "--mode", "preserve")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	user := got["user"].(map[string]any)
	if user["age"] != float64(36) {
		t.Errorf("user.age = %v, want 36", user["age"])
	}
}

func TestApply_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	initFile := writeFile(t, dir, "state.yaml", "a: 1\n")
	update := writeFile(t, dir, "update.yaml", "b: 2\n")

	_, err := runCmd(t, "apply", "--init", initFile, "--update", update)
	if !errors.Is(err, node.ErrUnknownKey) {
		t.Fatalf("apply error = %v, want ErrUnknownKey", err)
	}
}

func TestApply_Metrics(t *testing.T) {
	dir := t.TempDir()
	initFile := writeFile(t, dir, "state.yaml", "a: 1\n")
	update := writeFile(t, dir, "update.yaml", "a: 2\n")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"apply", "--init", initFile, "--update", update, "--metrics"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	report := errOut.String()
	for _, want := range []string{
		"updates=1 rejected=0 callbacks=0",
		`sealstore_events_total{level="DEBUG",type="store.update.complete"} 1`,
	} {
		if !strings.Contains(report, want) {
			t.Errorf("metrics report missing %q:\n%s", want, report)
		}
	}
}

func TestApply_NonFiniteNumber(t *testing.T) {
	dir := t.TempDir()
	initFile := writeFile(t, dir, "state.yaml", "ratio: 0.5\n")
	update := writeFile(t, dir, "update.yaml", "ratio: .nan\n")

	_, err := runCmd(t, "apply", "--init", initFile, "--update", update)
	if !errors.Is(err, node.ErrUnsupportedValue) {
		t.Fatalf("apply error = %v, want ErrUnsupportedValue", err)
	}
}

func TestApply_MissingInit(t *testing.T) {
	if _, err := runCmd(t, "apply"); err == nil {
		t.Fatal("expected error without --init")
	}
}

func TestLoadDocument_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")

	doc, err := loadDocument(path)
	if err != nil {
		t.Fatalf("loadDocument failed: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("got %v, want empty document", doc)
	}
}

func TestLoadDocument_NotMapping(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.yaml", "- a\n- b\n")

	if _, err := loadDocument(path); err == nil {
		t.Fatal("expected error for non-mapping document")
	}
}
