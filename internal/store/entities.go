package store

// Record kinds in the user_records table. Each user key holds at most one
// record of each kind.
const (
	KindJobRole        = "job_role"
	KindUserSkills     = "user_skills"
	KindAnalysisResult = "analysis_result"
	KindRoadmap        = "roadmap"
)

// JobRole is the target role a user selected during onboarding.
type JobRole struct {
	Domain           string   `json:"domain"`
	RoleLevel        string   `json:"roleLevel"`
	ExperienceRange  string   `json:"experienceRange"`
	EmploymentType   string   `json:"employmentType"`
	Responsibilities []string `json:"responsibilities"`
	CoreSkills       []string `json:"coreSkills"`
	BonusSkills      []string `json:"bonusSkills"`
}

type UserSkills struct {
	Skills []string `json:"skills"`
}

// ScoreEntry explains one skill's qualitative contribution to the readiness
// score (impact is High/Medium/Low as emitted by the scorer).
type ScoreEntry struct {
	Skill  string `json:"skill"`
	Impact string `json:"impact"`
}

type AnalysisResult struct {
	ReadinessScore  float64      `json:"readinessScore"`
	ReadinessStatus string       `json:"readinessStatus"`
	MatchedSkills   []string     `json:"matchedSkills"`
	MissingSkills   []string     `json:"missingSkills"`
	ResumeFitScore  float64      `json:"resumeFitScore"`
	ScoreBreakdown  []ScoreEntry `json:"scoreBreakdown"`
}

type RoadmapWeek struct {
	WeekNumber    int      `json:"weekNumber"`
	FocusSkill    string   `json:"focusSkill"`
	Courses       []string `json:"courses"`
	ResourceLinks []string `json:"resourceLinks"`
}

type Roadmap struct {
	Weeks []RoadmapWeek `json:"weeks"`
}
