// Package templates renders the files wpstarter writes into a new project:
// wp-config.php at the project root and the starter theme's build/package.json.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed files/*.tmpl
var files embed.FS

var (
	configTemplate   = parse("wp-config.php.tmpl")
	manifestTemplate = parse("package.json.tmpl")
)

// ConfigData holds the values substituted into wp-config.php
type ConfigData struct {
	DBName      string
	DBUser      string
	DBPassword  string
	DBHost      string
	TablePrefix string
	// AuthKeys is the define() block returned by the secret-key service, inserted verbatim
	AuthKeys string
	Debug    bool
}

// ManifestData holds the values substituted into the theme's package.json
type ManifestData struct {
	ThemeName   string
	ThemeFolder string
	Author      string
	AuthorURL   string
}

// RenderConfig renders wp-config.php. Output depends only on data.
func RenderConfig(data ConfigData) ([]byte, error) {
	return render(configTemplate, data)
}

// RenderManifest renders the starter theme's package.json. Output depends only on data.
func RenderManifest(data ManifestData) ([]byte, error) {
	return render(manifestTemplate, data)
}

func render(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func parse(name string) *template.Template {
	funcs := sprig.TxtFuncMap()
	funcs["php"] = escapePHP

	return template.Must(
		template.New(name).
			Funcs(funcs).
			Option("missingkey=error").
			ParseFS(files, "files/"+name),
	)
}

// escapePHP escapes a value for a single-quoted PHP string literal
func escapePHP(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
