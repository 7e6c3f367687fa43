package mcpserver

import (
	"encoding/json"

	"github.com/panbanda/docaudit/pkg/critique"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	serverName     = "io.github.panbanda/docaudit"
	imageName      = "ghcr.io/panbanda/docaudit"
)

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package describes one way to launch the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVariable declares an environment variable the client should provide.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
	IsSecret    bool   `json:"isSecret"`
}

type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders server.json for the given release version.
// Only one of the provider keys is needed, so neither is marked required.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	keys := []EnvVariable{
		{
			Name:        critique.DefaultAPIKeyEnv(critique.ProviderOpenAI),
			Description: "API key for OpenAI-compatible critique backends",
			IsSecret:    true,
		},
		{
			Name:        critique.DefaultAPIKeyEnv(critique.ProviderGemini),
			Description: "API key for Gemini models",
			IsSecret:    true,
		},
	}

	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        serverName,
		Description: "Audit Python docstrings with a language model and apply its fixes",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/docaudit",
			Source: "github",
		},
		Packages: []Package{{
			RegistryType:         "oci",
			Identifier:           imageName + ":" + version,
			PackageArguments:     []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: keys,
			Transport:            Transport{Type: "stdio"},
		}},
	}, "", "  ")
}
