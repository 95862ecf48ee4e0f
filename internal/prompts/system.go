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

package prompts

import (
	"fmt"

	"github.com/sirseerhq/pr-insights/internal/repository"
)

// InitialPrompt starts every interactive session.
const InitialPrompt = "Please analyze the open pull requests. Create a chart showing the PR age distribution " +
	"(how long they've been open) and save it to the current directory. " +
	"Also provide insights about contributors and any patterns you notice."

// FollowUpSuggestions are shown before the interactive question loop.
var FollowUpSuggestions = []string{
	"Create a pie chart showing PRs by author",
	"Which PRs have been open the longest?",
	"Show me a timeline of when PRs were created",
	"Generate a chart comparing this month vs last month",
}

// BatchSystemMessage instructs the batch session for repo, saving to outputDir.
func BatchSystemMessage(repo repository.Repository, outputDir string) string {
	return fmt.Sprintf(`
You are an expert GitHub analytics consultant. Analyze %s/%s with focus on:
- Data-driven insights
- Professional visualizations rendered as self-contained SVG charts
- Statistical analysis (mean, median, percentiles)
- Trend identification
- Actionable recommendations

Use get_repository_info and list_pull_requests to fetch pull request data.
Save all outputs with write_file; paths are relative to the output directory: %s
Use descriptive filenames and legible chart settings (1200x800 canvas, labelled axes).
`, repo.Owner, repo.Name, outputDir)
}

// InteractiveSystemMessage instructs the interactive session for repo,
// running in workDir.
func InteractiveSystemMessage(repo repository.Repository, workDir string) string {
	return fmt.Sprintf(`You are analyzing pull requests for the GitHub repository: %s/%s

The current working directory is: %s

Instructions:
- Use the get_repository_info and list_pull_requests tools to fetch PR data
- Use the write_file tool to save generated charts as SVG files
- Save any generated images to the current working directory
- Analyze PR age distribution, contributors, and patterns
- Be concise in your responses
- Provide actionable recommendations`, repo.Owner, repo.Name, workDir)
}
