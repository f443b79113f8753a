// internal/notify/templates.go
package notify

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"housing-workers/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var defaultTemplates embed.FS

type compiled struct {
	subject *template.Template
	body    *template.Template
	sms     *template.Template
}

// loadTemplates reads every *.yaml file of dir. An empty dir uses the built-in templates.
func loadTemplates(dir string) (map[string]*compiled, error) {
	var (
		fsys    fs.FS = defaultTemplates
		pattern       = "templates/*.yaml"
	)
	if dir != "" {
		fsys, pattern = os.DirFS(dir), "*.yaml"
	}
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("list notification templates: %w", err)
	}

	out := make(map[string]*compiled)
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var defs []models.NotificationTemplate
		if err := yaml.Unmarshal(raw, &defs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for _, def := range defs {
			c, err := compile(def)
			if err != nil {
				return nil, err
			}
			out[def.Type] = c
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no notification templates in %q", dir)
	}
	return out, nil
}

func compile(def models.NotificationTemplate) (*compiled, error) {
	if def.Type == "" {
		return nil, fmt.Errorf("notification template without type")
	}
	parse := func(part, text string) (*template.Template, error) {
		if text == "" {
			return nil, nil
		}
		t, err := template.New(def.Type + "." + part).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("template %s %s: %w", def.Type, part, err)
		}
		return t, nil
	}

	var (
		c   compiled
		err error
	)
	if c.subject, err = parse("subject", def.Subject); err != nil {
		return nil, err
	}
	if c.body, err = parse("body", def.Body); err != nil {
		return nil, err
	}
	if c.sms, err = parse("sms", def.SMS); err != nil {
		return nil, err
	}
	return &c, nil
}

func render(t *template.Template, notice models.Notice) (string, error) {
	if t == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, notice); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
