package ai

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"

	"github.com/uday132/hackhub/internal/config"
	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/llm"
)

//go:embed prompt.tmpl roadmap_schema.json
var assets embed.FS

// ErrNotConfigured is returned when no model is configured for generation.
var ErrNotConfigured = errors.New("roadmap generation is not configured")

// ParseError reports model output that could not be read as JSON. Raw carries
// the original text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse model response: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports parseable JSON that does not match the roadmap
// schema.
type ValidationError struct {
	Raw      string
	Problems []string
}

func (e *ValidationError) Error() string {
	return "model response does not match roadmap schema: " + strings.Join(e.Problems, "; ")
}

// Generator is the LLM call the engine depends on; *llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Engine turns a user profile into a validated learning roadmap.
type Engine struct {
	client Generator
	cfg    config.EngineConfig
	tmpl   string
	schema *jsonschema.Schema
}

// NewEngine creates a roadmap engine backed by the given LLM client.
func NewEngine(client Generator, cfg config.EngineConfig) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 45 * time.Second
	}

	tmpl, err := assets.ReadFile("prompt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}

	schemaJSON, err := assets.ReadFile("roadmap_schema.json")
	if err != nil {
		return nil, fmt.Errorf("read roadmap schema: %w", err)
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(schemaJSON, rs); err != nil {
		return nil, fmt.Errorf("compile roadmap schema: %w", err)
	}

	return &Engine{client: client, cfg: cfg, tmpl: string(tmpl), schema: rs}, nil
}

// RoadmapDoc is the wire shape the model is asked to produce.
type RoadmapDoc struct {
	Months []models.Month `json:"months"`
}

// GenerateRoadmap renders the career-coach prompt for the user's profile,
// calls the model, and parses and validates the response. Nothing is persisted
// here; the caller owns storage.
func (e *Engine) GenerateRoadmap(ctx context.Context, user *models.User) ([]models.Month, error) {
	if e.cfg.Model == "" {
		return nil, ErrNotConfigured
	}

	prompt, err := llm.RenderTemplate(e.tmpl, map[string]any{
		"CareerGoal":    user.CareerGoal,
		"SkillLevel":    user.SkillLevel,
		"Availability":  user.Availability,
		"TargetOutcome": user.TargetOutcome,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	doc, perr := ParseRoadmap(out)
	if perr != nil {
		return nil, perr
	}

	// validate against the embedded schema before anything touches storage;
	// the model output is untrusted input
	j := extractJSON(CleanResponse(out))
	verrs, err := e.schema.ValidateBytes(ctxReq, []byte(j))
	if err != nil {
		return nil, &ParseError{Raw: out, Err: err}
	}
	if len(verrs) > 0 {
		problems := make([]string, 0, len(verrs))
		for _, v := range verrs {
			problems = append(problems, v.Message)
		}
		return nil, &ValidationError{Raw: out, Problems: problems}
	}

	return normalizeMonths(doc.Months), nil
}

// ParseRoadmap extracts a JSON object from arbitrary model output and
// unmarshals it into the roadmap wire shape.
func ParseRoadmap(s string) (*RoadmapDoc, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ParseError{Raw: s, Err: errors.New("empty response")}
	}

	j := extractJSON(CleanResponse(s))
	if j == "" {
		return nil, &ParseError{Raw: s, Err: errors.New("no JSON object found in response")}
	}

	var doc RoadmapDoc
	if err := json.Unmarshal([]byte(j), &doc); err != nil {
		return nil, &ParseError{Raw: s, Err: err}
	}

	return &doc, nil
}

// CleanResponse strips markdown code fences that models often wrap JSON in.
func CleanResponse(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// extractJSON returns the substring from the first '{' to the last '}' in the
// input. Pragmatic handling for model outputs that wrap JSON in prose.
func extractJSON(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// normalizeMonths applies defaults the model is allowed to omit: fresh topics
// start incomplete, months start unlocked, nil slices become empty.
func normalizeMonths(months []models.Month) []models.Month {
	if months == nil {
		return []models.Month{}
	}
	for i := range months {
		m := &months[i]
		if m.Status == "" {
			m.Status = models.MonthUnlocked
		}
		if m.Skills == nil {
			m.Skills = []string{}
		}
		if m.Topics == nil {
			m.Topics = []models.Topic{}
		}
		if m.Resources == nil {
			m.Resources = []models.Resource{}
		}
		for j := range m.Topics {
			m.Topics[j].Completed = false
		}
	}

	return months
}
