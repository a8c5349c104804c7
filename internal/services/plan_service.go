package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"

	"github.com/Sirvey/shapemate-onboarding/internal/models"
)

// PlanGenerator produces a nutrition plan from a completed profile. One
// attempt per call; retrying is the caller's decision.
type PlanGenerator interface {
	Generate(ctx context.Context, profile *models.Profile) (*models.NutritionPlan, error)
}

// GeminiPlanGenerator talks to a Gemini-style text-generation endpoint. The
// vendor is interchangeable; everything model-specific stays in this file.
type GeminiPlanGenerator struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiPlanGenerator(baseURL, model, apiKey string) *GeminiPlanGenerator {
	return &GeminiPlanGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiPlanGenerator) Generate(ctx context.Context, profile *models.Profile) (*models.NutritionPlan, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildPlanPrompt(profile)}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal plan request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build plan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("generate plan: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode plan response: %w", err)
	}

	text := ""
	if len(decoded.Candidates) > 0 && len(decoded.Candidates[0].Content.Parts) > 0 {
		text = decoded.Candidates[0].Content.Parts[0].Text
	}
	if text == "" {
		return nil, fmt.Errorf("generate plan: model returned no text content")
	}

	return ParsePlanText(text)
}

func buildPlanPrompt(profile *models.Profile) string {
	var b strings.Builder
	b.WriteString("You are ShapeMate's nutrition engine.\n\n")
	b.WriteString("Based on the following user profile, calculate:\n")
	b.WriteString("- maintenanceCalories: realistic daily maintenance kcal\n")
	b.WriteString("- targetCalories: kcal aligned with the user's goal\n")
	b.WriteString("- proteinGrams: grams per day\n")
	b.WriteString("- carbsGrams: grams per day\n")
	b.WriteString("- fatsGrams: grams per day\n\n")
	b.WriteString("User data collected from the onboarding flow:\n")
	fmt.Fprintf(&b, "- gender: %s\n", profile.Gender)
	fmt.Fprintf(&b, "- birthDate: %s\n", profile.BirthDate)
	fmt.Fprintf(&b, "- height: %s %s\n", profile.Height.Value, profile.Height.Unit)
	fmt.Fprintf(&b, "- weight: %s %s\n", profile.Weight.Value, profile.Weight.Unit)
	fmt.Fprintf(&b, "- workoutFrequency: %s\n", profile.WorkoutFrequency)
	fmt.Fprintf(&b, "- goal: %s\n", profile.Goal)
	fmt.Fprintf(&b, "- diet: %s\n", profile.Diet)
	fmt.Fprintf(&b, "- obstacles: %s\n", strings.Join(profile.Obstacles, ", "))
	fmt.Fprintf(&b, "- accomplishment: %s\n", profile.Accomplishment)
	fmt.Fprintf(&b, "- caloriesBack: %t\n", profile.CaloriesBack)
	fmt.Fprintf(&b, "- rollover: %t\n\n", profile.Rollover)
	b.WriteString("Important:\n")
	b.WriteString("- Convert units correctly if needed.\n")
	b.WriteString("- Use standard sports nutrition formulas such as Mifflin-St Jeor or similar.\n")
	b.WriteString("- Make realistic values for an everyday person.\n\n")
	b.WriteString("Return ONLY valid JSON in exactly this shape, no explanation, no markdown, no comments:\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"maintenanceCalories\": number,\n")
	b.WriteString("  \"targetCalories\": number,\n")
	b.WriteString("  \"proteinGrams\": number,\n")
	b.WriteString("  \"carbsGrams\": number,\n")
	b.WriteString("  \"fatsGrams\": number\n")
	b.WriteString("}")
	return b.String()
}

type planPayload struct {
	MaintenanceCalories *float64 `json:"maintenanceCalories"`
	TargetCalories      *float64 `json:"targetCalories"`
	ProteinGrams        *float64 `json:"proteinGrams"`
	CarbsGrams          *float64 `json:"carbsGrams"`
	FatsGrams           *float64 `json:"fatsGrams"`
}

var jsonFencePattern = regexp.MustCompile("(?i)```json")

// ParsePlanText extracts exactly one well-formed plan object from model
// output that may be fenced or wrapped in prose. Parsing is all-or-nothing:
// a missing or non-finite field fails the whole call.
func ParsePlanText(text string) (*models.NutritionPlan, error) {
	cleaned := jsonFencePattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "```", ""))

	payload, err := decodePlanPayload(cleaned)
	if err != nil {
		candidate, ok := firstBalancedObject(cleaned)
		if !ok {
			return nil, fmt.Errorf("no JSON object in model output")
		}
		payload, err = decodePlanPayload(candidate)
		if err != nil {
			return nil, fmt.Errorf("parse plan JSON: %w", err)
		}
	}

	fields := []struct {
		name  string
		value *float64
	}{
		{"maintenanceCalories", payload.MaintenanceCalories},
		{"targetCalories", payload.TargetCalories},
		{"proteinGrams", payload.ProteinGrams},
		{"carbsGrams", payload.CarbsGrams},
		{"fatsGrams", payload.FatsGrams},
	}
	for _, field := range fields {
		if field.value == nil {
			return nil, fmt.Errorf("plan response missing %s", field.name)
		}
		v := *field.value
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("plan response has invalid %s", field.name)
		}
	}

	return &models.NutritionPlan{
		MaintenanceCalories: *payload.MaintenanceCalories,
		TargetCalories:      *payload.TargetCalories,
		ProteinGrams:        *payload.ProteinGrams,
		CarbsGrams:          *payload.CarbsGrams,
		FatsGrams:           *payload.FatsGrams,
	}, nil
}

func decodePlanPayload(text string) (*planPayload, error) {
	var payload planPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// firstBalancedObject returns the first {...} substring with balanced
// braces, skipping braces inside JSON strings.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
