package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

const githubPromptTemplate = `Analyze this GitHub profile data and provide insights:

User Profile:
- Username: %s
- Name: %s
- Bio: %s
- Public Repos: %s
- Followers: %s
- Following: %s
- Company: %s
- Location: %s

Top Repositories:
%s

Please provide:
1. Primary programming languages (based on repo languages)
2. Technical skills assessment
3. Project complexity level (1-10)
4. Areas of expertise
5. Recommended improvements

Format as JSON with keys: languages, skills, complexity_score, expertise_areas, recommendations`

const linkedInPromptTemplate = `Based on this LinkedIn profile URL: %s

Provide general professional insights for someone with a LinkedIn profile:
1. Professional networking score (1-10)
2. Industry presence assessment
3. Career development recommendations
4. Professional skills that are typically valuable

Format as JSON with keys: networking_score, industry_presence, career_recommendations, valuable_skills`

const projectsPromptTemplate = `Analyze these project links and provide insights:

Projects:
%s

Please provide:
1. Overall project quality assessment (1-10)
2. Technology stack diversity
3. Project complexity levels
4. Innovation and creativity score
5. Areas for improvement

Format as JSON with keys: quality_score, tech_diversity, complexity_levels, innovation_score, improvements`

const resumePromptTemplate = `Generate a professional resume based on this profile data and AI analysis:

Profile Data:
%s

AI Analysis:
%s

Create a comprehensive resume with:
1. Professional summary (2-3 sentences)
2. Enhanced skills list with proficiency levels
3. Improved project descriptions
4. Technical achievements
5. Professional strengths

Format as JSON with keys: professional_summary, enhanced_skills, project_descriptions, achievements, strengths`

const expertisePromptTemplate = `Generate a detailed expertise report based on this data:

Profile Data:
%s

AI Analysis:
%s

Provide:
1. Overall expertise score (0-100)
2. Skill assessments with scores for each technology
3. Top 5 strengths
4. Top 3 areas for improvement
5. Career development recommendations
6. Technology learning path suggestions

Format as JSON with keys: overall_score, skill_assessments, strengths, areas_for_improvement, career_recommendations, learning_path`

const maxPromptRepos = 10

func githubPrompt(user map[string]any, repos []map[string]any) string {
	if len(repos) > maxPromptRepos {
		repos = repos[:maxPromptRepos]
	}
	return fmt.Sprintf(githubPromptTemplate,
		field(user, "login", "N/A"),
		field(user, "name", "N/A"),
		field(user, "bio", "N/A"),
		field(user, "public_repos", "0"),
		field(user, "followers", "0"),
		field(user, "following", "0"),
		field(user, "company", "N/A"),
		field(user, "location", "N/A"),
		formatRepos(repos),
	)
}

func formatRepos(repos []map[string]any) string {
	lines := make([]string, 0, len(repos))
	for _, repo := range repos {
		lines = append(lines, fmt.Sprintf("- %s: %s (Language: %s, Stars: %s)",
			field(repo, "name", "N/A"),
			field(repo, "description", "No description"),
			field(repo, "language", "N/A"),
			field(repo, "stargazers_count", "0"),
		))
	}
	return strings.Join(lines, "\n")
}

// field 把 API 返回值格式化为 prompt 文本；缺失或为 null 时使用 fallback。
func field(m map[string]any, key, fallback string) string {
	switch v := m[key].(type) {
	case nil:
		return fallback
	case string:
		if v == "" {
			return fallback
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
