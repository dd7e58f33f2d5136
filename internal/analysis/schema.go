package analysis

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// operation 描述一次 prompt → 模型 → 解析的调用。
type operation struct {
	name    string
	failure string
	keys    []string
	schema  *gojsonschema.Schema
}

func newOperation(name, failure string, keys ...string) operation {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any{
		"type":     "object",
		"required": keys,
	}))
	if err != nil {
		panic(fmt.Sprintf("compile schema for %s: %v", name, err))
	}
	return operation{name: name, failure: failure, keys: keys, schema: schema}
}

var (
	opGitHub = newOperation("github_analysis", "GitHub analysis failed",
		"languages", "skills", "complexity_score", "expertise_areas", "recommendations")
	opLinkedIn = newOperation("linkedin_analysis", "LinkedIn analysis failed",
		"networking_score", "industry_presence", "career_recommendations", "valuable_skills")
	opProjects = newOperation("project_analysis", "Project analysis failed",
		"quality_score", "tech_diversity", "complexity_levels", "innovation_score", "improvements")
	opResume = newOperation("resume_content", "Resume generation failed",
		"professional_summary", "enhanced_skills", "project_descriptions", "achievements", "strengths")
	opExpertise = newOperation("expertise_report", "Expertise report generation failed",
		"overall_score", "skill_assessments", "strengths", "areas_for_improvement",
		"career_recommendations", "learning_path")
)

// missingKeys 返回结果中缺少的请求字段；结果只做记录，不会被拒绝。
func (op operation) missingKeys(result Result) ([]string, error) {
	res, err := op.schema.Validate(gojsonschema.NewGoLoader(map[string]any(result)))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	var missing []string
	for _, e := range res.Errors() {
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok {
				missing = append(missing, prop)
				continue
			}
		}
		missing = append(missing, e.String())
	}
	return missing, nil
}
