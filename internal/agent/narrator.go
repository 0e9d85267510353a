package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Role identifies one of the analysis personas in the narration
// pipeline.
type Role string

const (
	RoleTechnicalAnalyst     Role = "technical_analyst"
	RoleFundamentalEconomist Role = "fundamental_economist"
	RolePositionStrategist   Role = "position_strategist"
)

// Profile defines a persona's framing and task, matching the
// role/goal/backstory shape the analysis prompts are written in.
type Profile struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
	Task      string `yaml:"task"`
}

// Narrator turns structured analysis facts into natural-language
// commentary for one role, optionally consuming earlier roles' output.
type Narrator interface {
	Narrate(ctx context.Context, role Role, facts string, prior []string) (string, error)
}

// DefaultProfiles returns the built-in persona definitions used when
// the config file does not override them.
func DefaultProfiles() map[Role]Profile {
	return map[Role]Profile{
		RoleTechnicalAnalyst: {
			Role:      "Senior Technical Analyst",
			Goal:      "Interpret gold price action, moving averages and momentum into a clear technical outlook",
			Backstory: "A veteran chartist who has traded precious metals through multiple cycles and trusts price over narrative.",
			Task: "Review the technical indicator summary below and produce a concise technical outlook for gold. " +
				"State the signal, the key levels, and the momentum picture. Begin the response with 'TECHNICAL SIGNAL:'.",
		},
		RoleFundamentalEconomist: {
			Role:      "Macro Economist",
			Goal:      "Assess how monetary policy, the dollar and geopolitics are likely to move gold",
			Backstory: "A macro researcher focused on central bank policy and safe-haven flows.",
			Task: "Review the headlines and market context below and assess the fundamental backdrop for gold. " +
				"Begin the response with 'FUNDAMENTAL SIGNAL:'.",
		},
		RolePositionStrategist: {
			Role:      "Position Strategist",
			Goal:      "Combine technical and fundamental views into one actionable recommendation",
			Backstory: "A portfolio strategist who sizes positions and always defines risk before reward.",
			Task: "Using the technical and fundamental analyses provided as context, produce the final recommendation. " +
				"Start with 'GOLDTRACKER FINAL RECOMMENDATION' and include lines for RECOMMENDATION, ENTRY PRICE, " +
				"STOP-LOSS, TARGET PRICE, POSITION SIZE, TIMEFRAME and RISK ASSESSMENT (High/Medium/Low).",
		},
	}
}

// GeminiNarrator implements Narrator against the Gemini API.
type GeminiNarrator struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	profiles    map[Role]Profile
}

// NewGeminiNarrator creates a narrator backed by the Gemini API.
func NewGeminiNarrator(ctx context.Context, apiKey, model string, temperature float32, timeout time.Duration, profiles map[Role]Profile) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &GeminiNarrator{
		client:      client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		profiles:    profiles,
	}, nil
}

// Narrate runs one generation for the given role. Earlier stage outputs
// are passed through as prior context, mirroring a sequential
// analyst-to-strategist handoff.
func (n *GeminiNarrator) Narrate(ctx context.Context, role Role, facts string, prior []string) (string, error) {
	profile, ok := n.profiles[role]
	if !ok {
		return "", fmt.Errorf("unknown narration role %q", role)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	system := fmt.Sprintf("You are %s.\nGoal: %s\nBackstory: %s",
		profile.Role, profile.Goal, profile.Backstory)

	var prompt strings.Builder
	prompt.WriteString(profile.Task)
	prompt.WriteString("\n\n")
	for i, p := range prior {
		fmt.Fprintf(&prompt, "Context from earlier analysis (%d):\n%s\n\n", i+1, p)
	}
	prompt.WriteString("Input facts:\n")
	prompt.WriteString(facts)

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(n.temperature),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.String(), genai.RoleUser),
	}

	resp, err := n.client.Models.GenerateContent(ctx, n.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generation failed for %s: %w", role, err)
	}

	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("empty response from model for %s", role)
	}
	return out.String(), nil
}
