package resume

// PersonalInfo 是简历抬头的个人信息。
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// Experience 表示一段工作经历。
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education 表示一段教育经历。
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
	GPA         string `json:"gpa"`
}

// ProjectRef 指向用户提交的项目链接。
type ProjectRef struct {
	URL string `json:"url"`
}

// ProfileData 是生成简历时组装的资料快照，不单独落库。
type ProfileData struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Projects     []ProjectRef `json:"projects"`
}

// Document 是 resumes.resume_data 中存储的完整内容：资料快照 + AI 增强结果。
type Document struct {
	ProfileData
	AIEnhanced Analysis    `json:"ai_enhanced"`
	AIAnalysis AnalysisSet `json:"ai_analysis"`
}
