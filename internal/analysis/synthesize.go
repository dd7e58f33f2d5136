package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"aiResume/internal/resume"
)

// GenerateResumeContent 根据 profile 与聚合分析生成简历增强内容。
func (a *Analyzer) GenerateResumeContent(ctx context.Context, profile resume.ProfileData, aggregate Aggregate) (result Result) {
	defer a.recoverInto(opResume, &result)
	return a.synthesize(ctx, opResume, resumePromptTemplate, profile, aggregate)
}

// GenerateExpertiseReport 生成专业能力评估报告。
func (a *Analyzer) GenerateExpertiseReport(ctx context.Context, profile resume.ProfileData, aggregate Aggregate) (result Result) {
	defer a.recoverInto(opExpertise, &result)
	return a.synthesize(ctx, opExpertise, expertisePromptTemplate, profile, aggregate)
}

func (a *Analyzer) synthesize(ctx context.Context, op operation, tmpl string, profile resume.ProfileData, aggregate Aggregate) Result {
	profileJSON, err := marshalIndent(profile)
	if err != nil {
		return resume.Failed(op.failure + ": " + err.Error())
	}
	if aggregate == nil {
		aggregate = Aggregate{}
	}
	aggregateJSON, err := marshalIndent(aggregate)
	if err != nil {
		return resume.Failed(op.failure + ": " + err.Error())
	}
	return a.complete(ctx, op, fmt.Sprintf(tmpl, profileJSON, aggregateJSON))
}

func marshalIndent(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}
	return string(raw), nil
}
