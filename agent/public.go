package agent

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"google.golang.org/genai"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/docs"
	"github.com/sonwamoh/perfomance-attribution/renderer"
)

// Headline summarizes r in a few lines: both returns, the alpha and its
// split into effects, plus the groups that weigh the most on the alpha.
func Headline(r *attribution.Report) string {
	sum := r.Attribution.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio %s against benchmark %s", r.Portfolio, r.Benchmark)
	if r.Range.Valid() && !r.Range.From.IsZero() {
		fmt.Fprintf(&b, " over %s", r.Range)
	}
	fmt.Fprintln(&b, ".")
	fmt.Fprintf(&b, "Portfolio return %s, benchmark return %s, alpha %s.\n",
		attribution.Ratio(sum.PortfolioReturn).SignedString(),
		attribution.Ratio(sum.BenchmarkReturn).SignedString(),
		attribution.Ratio(sum.Alpha).SignedString())
	fmt.Fprintf(&b, "Allocation %s, selection %s, interaction %s.\n",
		attribution.Ratio(sum.Allocation).SignedString(),
		attribution.Ratio(sum.Selection).SignedString(),
		attribution.Ratio(sum.Interaction).SignedString())

	rows := slices.Clone(r.Attribution.Rows)
	effect := func(row attribution.AttributionRow) float64 {
		return math.Abs(row.Selection + row.Allocation + row.Interaction)
	}
	slices.SortStableFunc(rows, func(x, y attribution.AttributionRow) int { return cmp.Compare(effect(y), effect(x)) })
	var top []string
	for _, row := range rows[:min(3, len(rows))] {
		if effect(row) == 0 {
			break
		}
		top = append(top, fmt.Sprintf("%s (%s)", row.Group,
			attribution.Ratio(row.Selection+row.Allocation+row.Interaction).SignedString()))
	}
	if len(top) > 0 {
		fmt.Fprintf(&b, "Largest effects: %s.\n", strings.Join(top, ", "))
	}
	return b.String()
}

// newFacilitator returns the expert the user talks to. It knows the
// headline of the report and delegates the rest to experts.
func newFacilitator(model, brief string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are in charge of explaining a performance attribution to the user.
			The user ran a Brinson attribution of a portfolio against a benchmark and wants to
			understand where the difference of return (the alpha) comes from:
			allocation (over or under weighting a group), selection (picking better or worse
			instruments within a group) and interaction.

			Here is the headline of the report:

			` + brief + `
			The experts in your Tools keep the context of your previous questions.
			Ask the AttributionAnalyst for any figure beyond the headline, never make figures up.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewMarketAnalyst returns an expert grounded on Google Search, for news
// about the instruments and sectors of the report.
func NewMarketAnalyst(model string) *Expert {
	return &Expert{
		Name: "MarketAnalyst",
		Description: `This is an expert of equity markets,
		well aware of companies, sectors and the latest news about them.
		Ask the MarketAnalyst whenever you need recent or grounding information about why a sector or an instrument moved.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of equity markets, you can search and find about anything related to
			companies, sectors and markets. You Leverage Google Search to ground your assertions in a solid truth.
			You know how to relate the news to the price moves you are asked about.
				`}}},
		},
	}
}

// NewAttributionAnalyst returns an expert that reads the report r.
func NewAttributionAnalyst(model string, r *attribution.Report) *Expert {
	lib := []Function{reportFunc(r), groupFunc(r), topicFunc()}

	return &Expert{
		Name: "AttributionAnalyst",
		Description: `This is the AttributionAnalyst. He has the full attribution report of the user's portfolio
		against its benchmark: group returns, contributions, selection, allocation and interaction effects.
		Ask him about figures of the report and how to read them.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a performance analyst in charge of the user's attribution report.
				Use the available tools to read the report, the detail of a group, or the documentation
				about how the effects are computed. Never make figures up, read them from the report.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func reportFunc(r *attribution.Report) *Func {
	const name = "Report"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Report returns the full attribution report: returns by group on both sides, contributions, and effects.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return respond(id, name, renderer.ReportMarkdown(r), nil)
		},
	}
}

func groupFunc(r *attribution.Report) *Func {
	const name = "Group"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Group returns the figures of a single group (sector): its weight, return and effects, for the whole window and month by month when available.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"group": {
						Type:        genai.TypeString,
						Description: "The group name as it appears in the report, e.g. AUTO.",
					},
				},
				Required: []string{"group"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the group's figures.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			group, err := stringArg(args, "group")
			if err != nil {
				return respond(id, name, "", err)
			}
			md, err := groupMarkdown(r, group)
			return respond(id, name, md, err)
		},
	}
}

func topicFunc() *Func {
	const name = "Documentation"
	topics, _ := docs.Topics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Documentation returns a documentation topic about how the figures are computed.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "One of: " + strings.Join(topics, ", ") + ", or * for all of them.",
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown topic.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, err := stringArg(args, "topic")
			if err != nil {
				return respond(id, name, "", err)
			}
			content, err := docs.Topic(topic)
			return respond(id, name, content, err)
		},
	}
}

// groupMarkdown renders the attribution rows of group.
func groupMarkdown(r *attribution.Report, group string) (string, error) {
	keep := func(a attribution.Attribution) attribution.Attribution {
		var rows []attribution.AttributionRow
		for _, row := range a.Rows {
			if row.Group == group {
				rows = append(rows, row)
			}
		}
		a.Rows = rows
		return a
	}

	single := keep(r.Attribution)
	if len(single.Rows) == 0 {
		return "", fmt.Errorf("unknown group %q", group)
	}
	var b strings.Builder
	fmt.Fprint(&b, renderer.AttributionMarkdown(group, single))
	for _, month := range r.Monthly {
		if m := keep(month); len(m.Rows) > 0 {
			fmt.Fprint(&b, "\n", renderer.AttributionMarkdown(group+" in "+month.Summary.Date.Format("2006-01"), m))
		}
	}
	return b.String(), nil
}
