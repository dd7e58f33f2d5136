package resume

// 分析来源名称，对应 AnalysisSet 的 key。
const (
	SourceGitHub   = "github"
	SourceLinkedIn = "linkedin"
	SourceProjects = "projects"
)

// Analysis 是模型返回的结构化结果。字段均不保证存在，使用方需按可选处理。
// 失败时形如 {"error": "..."}。
type Analysis map[string]any

// AnalysisSet 按来源聚合多份分析结果。
type AnalysisSet map[string]Analysis

// Failed 构造一个错误结果。
func Failed(reason string) Analysis {
	return Analysis{"error": reason}
}

// ErrorReason 返回结果中的 error 字段。
func (a Analysis) ErrorReason() (string, bool) {
	if a == nil {
		return "", false
	}
	reason, ok := a["error"].(string)
	return reason, ok
}

// String 读取字符串字段，不存在或类型不符时返回空串。
func (a Analysis) String(key string) string {
	if s, ok := a[key].(string); ok {
		return s
	}
	return ""
}
