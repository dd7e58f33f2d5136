package resume

// Sample 返回一份示例简历，供前端在用户还没有生成简历时展示。
func Sample() Document {
	return Document{
		ProfileData: ProfileData{
			PersonalInfo: PersonalInfo{
				Name:     "Jane Doe",
				Email:    "jane.doe@example.com",
				GitHub:   "https://github.com/janedoe",
				LinkedIn: "https://www.linkedin.com/in/janedoe",
			},
			Skills: []string{"Go", "PostgreSQL", "Kubernetes", "TypeScript"},
			Experience: []Experience{
				{
					Company:     "Acme Corp",
					Position:    "Senior Backend Engineer",
					Duration:    "2021 - Present",
					Description: "Led the migration of the billing platform to event-driven services.",
				},
			},
			Education: []Education{
				{Institution: "State University", Degree: "B.Sc. Computer Science", Year: "2017", GPA: "3.8"},
			},
			Projects: []ProjectRef{{URL: "https://github.com/janedoe/queue-bench"}},
		},
		AIEnhanced: Analysis{
			"professional_summary": "Backend engineer with six years of experience building reliable distributed systems in Go.",
			"strengths":            []any{"System design", "Observability", "Mentoring"},
		},
		AIAnalysis: AnalysisSet{},
	}
}
