// Package insight produces the narrative interpretation of an analysis,
// either from the Anthropic API or from a deterministic template.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/model"
	"github.com/gregorizeidler/urbansight/pkg/anthropic"
)

const systemPrompt = `You are a real-estate location analyst. You turn neighborhood metrics into clear, honest prose for property listings. Always answer with a single JSON object and nothing else.`

// maxPromptPOILines caps the POI listing sent to the model.
const maxPromptPOILines = 20

// topPerCategoryInPrompt caps how many POIs per category are listed.
const topPerCategoryInPrompt = 5

// Generator renders insights for completed analyses. With a nil client it
// always uses the template fallback.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New returns a Generator backed by the given client, which may be nil.
func New(client anthropic.Client, modelID string, maxTokens int64) *Generator {
	return &Generator{client: client, model: modelID, maxTokens: maxTokens}
}

// Generate never fails: on any model error it falls back to the template,
// so a successful analysis always carries insights.
func (g *Generator) Generate(ctx context.Context, property model.PropertyInfo, metrics model.NeighborhoodMetrics, pois []model.POI) model.Insight {
	if g == nil || g.client == nil {
		return Template(property, metrics, pois)
	}

	out, err := g.fromModel(ctx, property, metrics, pois)
	if err != nil {
		zap.L().Warn("model insight failed, using template",
			zap.String("component", "insight"),
			zap.String("address", property.Address),
			zap.Error(err))
		return Template(property, metrics, pois)
	}
	return out
}

// insightPayload mirrors the JSON keys the prompt asks the model for.
type insightPayload struct {
	ExecutiveSummary        string   `json:"executive_summary"`
	NeighborhoodDescription string   `json:"neighborhood_description"`
	Strengths               []string `json:"strengths"`
	Concerns                []string `json:"concerns"`
	Recommendations         []string `json:"recommendations"`
	IdealResidentProfile    string   `json:"ideal_resident_profile"`
	MarketPositioning       string   `json:"market_positioning"`
	InvestmentPotential     string   `json:"investment_potential"`
}

func (g *Generator) fromModel(ctx context.Context, property model.PropertyInfo, metrics model.NeighborhoodMetrics, pois []model.POI) (model.Insight, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: BuildPrompt(property, metrics, pois)},
		},
	})
	if err != nil {
		return model.Insight{}, err
	}
	resp.Usage.LogCost(g.model, "insight")

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	var p insightPayload
	if err := json.Unmarshal([]byte(UnwrapJSON(text.String())), &p); err != nil {
		return model.Insight{}, eris.Wrap(err, "insight: parse model reply")
	}
	if p.ExecutiveSummary == "" {
		return model.Insight{}, eris.New("insight: model reply missing executive_summary")
	}

	return model.Insight{
		ExecutiveSummary:        p.ExecutiveSummary,
		NeighborhoodDescription: p.NeighborhoodDescription,
		Strengths:               p.Strengths,
		Concerns:                p.Concerns,
		Recommendations:         p.Recommendations,
		IdealResidentProfile:    p.IdealResidentProfile,
		MarketPositioning:       p.MarketPositioning,
		InvestmentPotential:     p.InvestmentPotential,
		Source:                  model.InsightSourceModel,
	}, nil
}

// BuildPrompt renders the compact analysis context sent to the model.
func BuildPrompt(property model.PropertyInfo, metrics model.NeighborhoodMetrics, pois []model.POI) string {
	var b strings.Builder
	b.WriteString("Analyze the surroundings of this property and produce listing-quality insights.\n\n")

	fmt.Fprintf(&b, "PROPERTY:\n- Address: %s\n", property.Address)
	if property.City != "" {
		fmt.Fprintf(&b, "- City: %s, %s\n", property.City, property.State)
	}
	fmt.Fprintf(&b, "- Coordinates: %.6f, %.6f\n\n", property.Lat, property.Lon)

	fmt.Fprintf(&b, "SCORES:\n- Walk score: %.1f/100 (grade %s)\n", metrics.WalkScore.Overall, metrics.WalkScore.Grade)
	names := make([]string, 0, len(metrics.Domains))
	for name := range metrics.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %.1f/100\n", name, metrics.Domains[name].Value)
	}
	fmt.Fprintf(&b, "- Total: %.1f/100\n\n", metrics.TotalScore)

	if listing := formatPOIs(pois); listing != "" {
		b.WriteString("CLOSEST POINTS OF INTEREST:\n")
		b.WriteString(listing)
		b.WriteString("\n\n")
	}

	b.WriteString("CATEGORY COUNTS:\n")
	for _, cat := range append(model.Taxonomy(), model.CategoryOther) {
		if n := metrics.CategoryCounts[cat]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", cat, n)
		}
	}
	fmt.Fprintf(&b, "- density: %.1f POIs per square km\n\n", metrics.Density)

	b.WriteString("Respond with one JSON object using the keys executive_summary, neighborhood_description, strengths, concerns, recommendations, ideal_resident_profile, market_positioning and investment_potential. strengths, concerns and recommendations are arrays of short strings.")
	return b.String()
}

// formatPOIs lists the closest POIs per category, a few lines each, capped
// overall so the prompt stays small.
func formatPOIs(pois []model.POI) string {
	byCat := make(map[model.Category][]model.POI)
	for _, p := range pois {
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	var lines []string
	for _, cat := range append(model.Taxonomy(), model.CategoryOther) {
		group := byCat[cat]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Distance < group[j].Distance
		})
		if len(group) > topPerCategoryInPrompt {
			group = group[:topPerCategoryInPrompt]
		}
		for _, p := range group {
			lines = append(lines, fmt.Sprintf("- %s (%s) - %.0fm", p.Name, p.Subcategory, p.Distance))
		}
	}
	if len(lines) > maxPromptPOILines {
		lines = lines[:maxPromptPOILines]
	}
	return strings.Join(lines, "\n")
}

// UnwrapJSON strips a Markdown code fence from a model reply, leaving the
// JSON payload.
func UnwrapJSON(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+len("```"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}

// walkAdjectives map walk grades to the adjective used in template prose.
var walkAdjectives = map[string]string{
	"A+": "exceptional",
	"A":  "excellent",
	"B":  "good",
	"C":  "fair",
	"D":  "limited",
	"F":  "poor",
}

// Template derives insights from the metrics alone. It is the guaranteed
// fallback when no model is configured or a model call fails.
func Template(property model.PropertyInfo, metrics model.NeighborhoodMetrics, pois []model.POI) model.Insight {
	adj, ok := walkAdjectives[metrics.WalkScore.Grade]
	if !ok {
		adj = "fair"
	}
	place := property.City
	if place == "" {
		place = property.Address
	}

	profile := "quiet residential living"
	if metrics.TotalScore > 70 {
		profile = "urban convenience"
	}

	positioning := "budget"
	switch {
	case metrics.TotalScore > 80:
		positioning = "premium"
	case metrics.TotalScore > 60:
		positioning = "mid-market"
	}

	potential := "conservative"
	switch {
	case metrics.TotalScore > 75:
		potential = "high"
	case metrics.TotalScore > 50:
		potential = "medium"
	}

	counts := metrics.CategoryCounts
	return model.Insight{
		ExecutiveSummary: fmt.Sprintf(
			"Property located in %s with %s walkability (walk score %.1f). The location offers access to %d points of interest within the search radius, with a total score of %.1f/100.",
			place, adj, metrics.WalkScore.Overall, len(pois), metrics.TotalScore),
		NeighborhoodDescription: fmt.Sprintf(
			"The neighborhood has %d dining establishments, %d shopping options and %d public transport points; everyday infrastructure rates as %s.",
			counts[model.CategoryFood], counts[model.CategoryShopping], counts[model.CategoryTransport], adj),
		Strengths: []string{
			fmt.Sprintf("Walk score of %.1f points", metrics.WalkScore.Overall),
			fmt.Sprintf("Accessibility score: %.1f/100", metrics.Domains["accessibility"].Value),
			fmt.Sprintf("Convenience score: %.1f/100", metrics.Domains["convenience"].Value),
		},
		Concerns: []string{
			"Detailed assessment requires an on-site visit",
			"Data can vary with OpenStreetMap updates",
		},
		Recommendations: []string{
			"Validate findings with a local visit",
			"Consider development trends in the area",
			"Evaluate future appreciation potential",
		},
		IdealResidentProfile: fmt.Sprintf("Suited to people who value %s", profile),
		MarketPositioning:    fmt.Sprintf("Positioned as %s in the local market", positioning),
		InvestmentPotential:  fmt.Sprintf("Investment potential is %s based on the location metrics", potential),
		Source:               model.InsightSourceTemplate,
	}
}
