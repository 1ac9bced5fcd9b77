// Package readme extracts structured project metadata from README documents
// so the admin panel can prefill a project form with one click.
package readme

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tecnofusion-it/navi/navi/assistant"
	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// ProjectInfo is the metadata extracted from a README.
type ProjectInfo struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Status       string `json:"status"`
}

// projectInfoSchema validates the model's JSON before it reaches the form.
const projectInfoSchema = `{
	"type": "object",
	"required": ["title", "description", "technologies"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"description": {"type": "string", "minLength": 1},
		"technologies": {"type": "string"},
		"status": {"type": "string", "enum": ["Desarrollo", "Producción", "Produccion", ""]}
	}
}`

const analyzePrompt = `Analiza el siguiente texto de un archivo README de un proyecto de software y extrae la siguiente informacion en formato JSON:
- title: un titulo corto y descriptivo para el proyecto.
- description: una descripcion clara y concisa de lo que hace el proyecto (maximo 3 oraciones).
- technologies: una lista de las tecnologias principales utilizadas (ej: "React, Node.js, Firebase").
- status: "Desarrollo" o "Producción" (inferir del contexto, default "Desarrollo").

IMPORTANTE: responde UNICAMENTE con el objeto JSON valido.

README:
`

// textGenerator is the slice of the orchestrator the analyzer needs.
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string, order []ports.ProviderID) (assistant.Result, error)
}

// Analyzer runs README analysis through the provider fallback chain and
// memoizes results by content hash.
type Analyzer struct {
	generator  textGenerator
	cache      ports.Cache
	ttlSeconds int
	logger     zerolog.Logger
}

// NewAnalyzer creates an analyzer. cache may be nil to disable memoization.
func NewAnalyzer(generator textGenerator, cache ports.Cache, ttlSeconds int, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		generator:  generator,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		logger:     logger.With().Str("component", "readme_analyzer").Logger(),
	}
}

// Analyze extracts project info from readmeText. The same document analyzed
// twice hits the cache instead of a backend.
func (a *Analyzer) Analyze(ctx context.Context, readmeText string) (ProjectInfo, error) {
	if strings.TrimSpace(readmeText) == "" {
		return ProjectInfo{}, fmt.Errorf("readme text is empty")
	}

	key := cacheKey(readmeText)
	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, key); ok {
			var info ProjectInfo
			if err := json.Unmarshal(cached, &info); err == nil {
				a.logger.Debug().Msg("readme analysis served from cache")
				return info, nil
			}
		}
	}

	result, err := a.generator.GenerateText(ctx, analyzePrompt+readmeText, nil)
	if err != nil {
		return ProjectInfo{}, fmt.Errorf("readme analysis failed: %w", err)
	}

	info, err := parseProjectInfo(result.Text)
	if err != nil {
		return ProjectInfo{}, err
	}
	if info.Status == "" {
		info.Status = "Desarrollo"
	}

	if a.cache != nil {
		if encoded, err := json.Marshal(info); err == nil {
			if err := a.cache.Set(ctx, key, encoded, a.ttlSeconds); err != nil {
				a.logger.Warn().Err(err).Msg("failed to cache readme analysis")
			}
		}
	}

	a.logger.Debug().Str("provider", string(result.Provider)).Msg("readme analyzed")
	return info, nil
}

// parseProjectInfo locates the JSON object inside the model reply, validates
// it against the schema and decodes it. Models often wrap JSON in prose or
// code fences, so everything outside the outermost braces is discarded.
func parseProjectInfo(reply string) (ProjectInfo, error) {
	raw, ok := extractJSONObject(reply)
	if !ok {
		return ProjectInfo{}, fmt.Errorf("reply contains no JSON object")
	}

	schemaLoader := gojsonschema.NewStringLoader(projectInfoSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return ProjectInfo{}, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return ProjectInfo{}, fmt.Errorf("extracted JSON is invalid: %s", strings.Join(problems, "; "))
	}

	var info ProjectInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ProjectInfo{}, fmt.Errorf("decode project info: %w", err)
	}
	return info, nil
}

// extractJSONObject returns the slice between the first '{' and the last '}'.
func extractJSONObject(text string) ([]byte, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}

func cacheKey(readmeText string) string {
	sum := sha256.Sum256([]byte(readmeText))
	return "readme:" + hex.EncodeToString(sum[:])
}
