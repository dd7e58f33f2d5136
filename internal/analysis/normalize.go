package analysis

import (
	"encoding/json"
	"regexp"
)

// jsonObjectRe 贪婪匹配第一个 '{' 到最后一个 '}'，允许跨行。
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResponse 把模型的自由文本解析为结构化结果。
// 找不到 JSON 对象或解析失败时返回 {"analysis": text}，从不失败。
func ParseResponse(text string) Result {
	match := jsonObjectRe.FindString(text)
	if match == "" {
		return Result{"analysis": text}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(match), &parsed); err != nil || parsed == nil {
		return Result{"analysis": text}
	}
	return Result(parsed)
}
