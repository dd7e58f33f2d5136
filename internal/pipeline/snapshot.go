package pipeline

import (
	"aiResume/internal/database"
	"aiResume/internal/resume"
)

// Snapshot 用当前的 User 与 Profile 组装生成所需的资料快照。
// 切片字段始终非 nil，序列化后为 [] 而不是 null。
func Snapshot(user *database.User, profile *database.Profile) resume.ProfileData {
	projects := make([]resume.ProjectRef, 0, len(profile.ProjectLinks))
	for _, link := range profile.ProjectLinks {
		projects = append(projects, resume.ProjectRef{URL: link})
	}

	return resume.ProfileData{
		PersonalInfo: resume.PersonalInfo{
			Name:     user.Username,
			Email:    user.Email,
			GitHub:   profile.GitHubURL,
			LinkedIn: profile.LinkedInURL,
		},
		Skills:     append(make([]string, 0, len(profile.Skills)), profile.Skills...),
		Experience: append(make([]resume.Experience, 0, len(profile.Experience)), profile.Experience...),
		Education:  append(make([]resume.Education, 0, len(profile.Education)), profile.Education...),
		Projects:   projects,
	}
}
