package model

// CourseSession 课程会话表，对应 course_sessions
//
// 每条记录来自一条合法的 kbList 原始记录；Seq 保存规范化后的列表顺序，
// 查询时按 Seq 还原导入顺序。
type CourseSession struct {
	CourseSessionID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_session_id"`
	OwnerID         string   `gorm:"type:varchar(64);not null"                      json:"owner_id"`
	AcademicYear    string   `gorm:"type:varchar(4);not null"                       json:"academic_year"`
	Semester        string   `gorm:"type:varchar(4);not null"                       json:"semester"` // 学期码 3 | 12
	Seq             int      `gorm:"not null"                                       json:"seq"`
	Name            string   `gorm:"type:varchar(200);not null"                     json:"name"`
	Teacher         string   `gorm:"type:varchar(200);not null"                     json:"teacher"`
	Position        string   `gorm:"type:varchar(200);not null"                     json:"position"`
	DayOfWeek       int      `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartSection    int      `gorm:"type:smallint;not null"                         json:"start_section"`
	EndSection      int      `gorm:"type:smallint;not null"                         json:"end_section"`
	Weeks           WeekList `gorm:"type:int[];not null"                            json:"weeks"`
	WeekType        string   `gorm:"type:varchar(10);not null;default:'all'"        json:"week_type"` // all | odd | even（冗余派生）
	Source          string   `gorm:"type:varchar(20);not null;default:'upload'"     json:"source"`    // jwxt | upload
	ImportID        string   `gorm:"type:uuid;not null"                             json:"import_id"`
	Timestamps
}

// TableName 指定表名
func (CourseSession) TableName() string { return "course_sessions" }
