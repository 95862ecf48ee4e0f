// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompts holds the fixed instructions sent to the assistant: the
// batch analyses, the closing summary request, and the system messages of
// both entry points.
package prompts

import (
	"fmt"
	"slices"
	"strings"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

// Task is one named batch analysis.
type Task struct {
	Name   string
	Prompt string
}

var analyses = []Task{
	{
		Name: "velocity-trends",
		Prompt: `Analyze PR velocity trends over the last 6 months:
    - Average time to merge
    - PR throughput (PRs merged per week)
    - Identify any velocity changes
    - Create a line chart showing trends
    Save as velocity-trends.svg`,
	},
	{
		Name: "review-patterns",
		Prompt: `Analyze PR review patterns:
    - Average number of reviews per PR
    - Time to first review
    - Review approval rates
    - Top reviewers
    - Create visualizations for review metrics
    Save as review-patterns.svg`,
	},
	{
		Name: "contributor-insights",
		Prompt: `Analyze contributor patterns:
    - Distribution of PRs by author
    - New vs. returning contributors
    - Contribution frequency
    - Create a bar chart of top 10 contributors
    Save as contributor-insights.svg`,
	},
	{
		Name: "label-analysis",
		Prompt: `Analyze PR labels and categorization:
    - Most common labels
    - Label combinations
    - Average time to merge by label type
    - Create a pie chart and bar chart
    Save as label-analysis.svg`,
	},
	{
		Name: "size-complexity",
		Prompt: `Analyze PR size and complexity:
    - Distribution of PR sizes (lines changed)
    - Files modified per PR
    - Correlation between size and merge time
    - Create scatter plot and histogram
    Save as size-complexity.svg`,
	},
}

// SummaryPrompt closes every batch run.
const SummaryPrompt = `
Based on all the analyses performed, create a comprehensive Markdown summary report:
- Executive summary (3-4 key findings)
- Detailed insights from each analysis
- Trends and patterns observed
- Top 3 recommendations for improving PR workflow
- List of all generated visualizations

Save as summary-report.md in the output directory.
`

// Analyses returns the fixed analysis list in dispatch order.
func Analyses() []Task {
	return slices.Clone(analyses)
}

// Names returns the analysis names in dispatch order.
func Names() []string {
	names := make([]string, len(analyses))
	for i, task := range analyses {
		names[i] = task.Name
	}
	return names
}

// Select returns the analyses named in names, in the fixed list's order.
// An empty selection means all analyses. Unknown names are an error.
func Select(names []string) ([]Task, error) {
	if len(names) == 0 {
		return Analyses(), nil
	}

	known := Names()
	for _, name := range names {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("%w %q (available: %s)", insightserrors.ErrUnknownAnalysis, name, strings.Join(known, ", "))
		}
	}

	var selected []Task
	for _, task := range analyses {
		if slices.Contains(names, task.Name) {
			selected = append(selected, task)
		}
	}
	return selected, nil
}
