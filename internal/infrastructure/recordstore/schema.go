package recordstore

// schemaVersion is bumped when the table or index layout changes.
// There is no migration machinery beyond re-provisioning missing buckets.
const schemaVersion = 1

// tableSchema declares one table and its equality-lookup indexes.
type tableSchema struct {
	name    string
	indexes []string
}

// Table names.
const (
	TableUsers          = "users"
	TableSettings       = "settings"
	TableProjects       = "projects"
	TableTasks          = "tasks"
	TableTimeEntries    = "time_entries"
	TableNotes          = "notes"
	TableLessons        = "lessons"
	TableLessonProgress = "lesson_progress"
	TableSkills         = "skills"
	TableSkillProgress  = "skill_progress"
	TableActivityLog    = "activity_log"
)

// schemas is the fixed table layout. Indexes support exact-match lookups
// only; there are no range indexes.
var schemas = []tableSchema{
	{name: TableUsers, indexes: []string{"email"}},
	{name: TableSettings, indexes: []string{"user_id"}},
	{name: TableProjects, indexes: []string{"status", "priority"}},
	{name: TableTasks, indexes: []string{"project_id", "status", "assignee_id"}},
	{name: TableTimeEntries, indexes: []string{"task_id", "user_id", "start_time"}},
	{name: TableNotes, indexes: []string{"user_id", "task_id", "lesson_id", "category"}},
	{name: TableLessons, indexes: []string{"category", "difficulty"}},
	{name: TableLessonProgress, indexes: []string{"user_id", "lesson_id"}},
	{name: TableSkills, indexes: []string{"category"}},
	{name: TableSkillProgress, indexes: []string{"user_id", "skill_id"}},
	{name: TableActivityLog, indexes: []string{"user_id", "timestamp"}},
}

func schemaFor(table string) (tableSchema, bool) {
	for _, s := range schemas {
		if s.name == table {
			return s, true
		}
	}
	return tableSchema{}, false
}

// Tables returns the fixed table names in schema order.
func Tables() []string {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.name)
	}
	return names
}
