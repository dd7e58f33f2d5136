package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"aiResume/internal/resume"
)

var layout = template.Must(template.New("resume").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(resumeTemplate))

type resumeView struct {
	Name       string
	Email      string
	GitHub     string
	LinkedIn   string
	Summary    string
	Strengths  []string
	Skills     string
	Experience []resume.Experience
	Education  []resume.Education
	Projects   []resume.ProjectRef
}

// RenderHTML 把简历文档渲染为 HTML。AI 字段按可选处理，类型不符时直接跳过。
func RenderHTML(doc resume.Document) (string, error) {
	info := doc.PersonalInfo
	view := resumeView{
		Name:       orNA(info.Name),
		Email:      orNA(info.Email),
		GitHub:     info.GitHub,
		LinkedIn:   info.LinkedIn,
		Summary:    doc.AIEnhanced.String("professional_summary"),
		Strengths:  stringList(doc.AIEnhanced["strengths"]),
		Skills:     strings.Join(doc.Skills, ", "),
		Experience: doc.Experience,
		Education:  doc.Education,
		Projects:   doc.Projects,
	}

	var buf bytes.Buffer
	if err := layout.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute resume template: %w", err)
	}
	return buf.String(), nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// stringList 只接受字符串数组，其余形状（对象、数字等）返回 nil。
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
