// Package prompts holds the LLM prompt templates. Templates are declared in
// the embedded prompts.yaml and rendered with text/template.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsFS embed.FS

type Name string

const (
	Invoke     Name = "invoke"
	Chat       Name = "chat"
	Quote      Name = "quote"
	TaskAdvice Name = "task_advice"
)

type yamlFile struct {
	Version int                   `yaml:"version"`
	Prompts map[string]yamlPrompt `yaml:"prompts"`
}

type yamlPrompt struct {
	JSON   bool   `yaml:"json"`
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Template is a compiled prompt. JSON reports whether the reply is
// expected to be a JSON object.
type Template struct {
	Name   Name
	JSON   bool
	system *template.Template
	user   *template.Template
}

// Render executes both halves of the template against data. An empty
// system prompt is returned as "".
func (t *Template) Render(data any) (system, user string, err error) {
	if system, err = execute(t.system, data); err != nil {
		return "", "", fmt.Errorf("%s system: %w", t.Name, err)
	}
	if user, err = execute(t.user, data); err != nil {
		return "", "", fmt.Errorf("%s user: %w", t.Name, err)
	}
	return system, user, nil
}

func execute(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

type Registry struct {
	templates map[Name]*Template
}

// Parse compiles a prompts YAML document.
func Parse(data []byte) (*Registry, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if f.Version <= 0 {
		return nil, fmt.Errorf("prompts: invalid version %d", f.Version)
	}

	r := &Registry{templates: make(map[Name]*Template, len(f.Prompts))}
	for name, p := range f.Prompts {
		if strings.TrimSpace(p.User) == "" {
			return nil, fmt.Errorf("prompt %s: missing user template", name)
		}
		sysT, err := template.New(name + ".system").Option("missingkey=zero").Parse(p.System)
		if err != nil {
			return nil, fmt.Errorf("prompt %s system template parse: %w", name, err)
		}
		userT, err := template.New(name + ".user").Option("missingkey=zero").Parse(p.User)
		if err != nil {
			return nil, fmt.Errorf("prompt %s user template parse: %w", name, err)
		}
		r.templates[Name(name)] = &Template{Name: Name(name), JSON: p.JSON, system: sysT, user: userT}
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry compiled from the embedded prompts.yaml.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		data, err := promptsFS.ReadFile("prompts.yaml")
		if err != nil {
			defaultErr = err
			return
		}
		defaultRegistry, defaultErr = Parse(data)
	})
	return defaultRegistry, defaultErr
}

func (r *Registry) Get(name Name) (*Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q", name)
	}
	return t, nil
}
