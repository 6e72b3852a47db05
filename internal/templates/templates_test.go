package templates

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleConfig() ConfigData {
	return ConfigData{
		DBName:      "wp_my-shop",
		DBUser:      "root",
		DBPassword:  "",
		DBHost:      "localhost",
		TablePrefix: "wp_",
		AuthKeys:    "define('AUTH_KEY',         'k3y');\ndefine('NONCE_SALT',       's@lt');\n",
	}
}

func TestRenderConfig(t *testing.T) {
	t.Parallel()

	out, err := RenderConfig(sampleConfig())
	require.NoError(t, err)

	text := string(out)
	require.True(t, strings.HasPrefix(text, "<?php\n"))
	require.Contains(t, text, "define( 'DB_NAME', 'wp_my-shop' );")
	require.Contains(t, text, "define( 'DB_USER', 'root' );")
	require.Contains(t, text, "define( 'DB_PASSWORD', '' );")
	require.Contains(t, text, "define( 'DB_HOST', 'localhost' );")
	require.Contains(t, text, "$table_prefix = 'wp_';")
	require.Contains(t, text, "define('AUTH_KEY',         'k3y');\ndefine('NONCE_SALT',       's@lt');\n/**#@-*/")
	require.Contains(t, text, "define( 'WP_DEBUG', false );")
}

func TestRenderConfig_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := RenderConfig(sampleConfig())
	require.NoError(t, err)
	second, err := RenderConfig(sampleConfig())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderConfig_EscapesQuotes(t *testing.T) {
	t.Parallel()

	data := sampleConfig()
	data.DBPassword = `it's\secret`

	out, err := RenderConfig(data)
	require.NoError(t, err)
	require.Contains(t, string(out), `define( 'DB_PASSWORD', 'it\'s\\secret' );`)
}

func TestRenderManifest(t *testing.T) {
	t.Parallel()

	out, err := RenderManifest(ManifestData{
		ThemeName:   `My "Shop"`,
		ThemeFolder: "my-shop",
		Author:      "JV Software",
		AuthorURL:   "http://www.jvsoftware.com/",
	})
	require.NoError(t, err)

	var manifest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Author      struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"author"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	require.NoError(t, json.Unmarshal(out, &manifest))
	require.Equal(t, "my-shop", manifest.Name)
	require.Equal(t, `My "Shop" WordPress theme`, manifest.Description)
	require.Equal(t, "JV Software", manifest.Author.Name)
	require.Equal(t, "http://www.jvsoftware.com/", manifest.Author.URL)
	require.Contains(t, manifest.DevDependencies, "grunt")
}

func TestEscapePHP(t *testing.T) {
	t.Parallel()
	require.Equal(t, `a\'b\\c`, escapePHP(`a'b\c`))
	require.Equal(t, "plain", escapePHP("plain"))
}
