package constants

import (
	"strings"
	"time"
)

// Category tags a task, habit or goal with a life area
type Category string

// EnergyLevel is a self-reported energy reading
type EnergyLevel string

// TaskStatus represents the lifecycle state of a one-off task
type TaskStatus string

const (
	AppName            = "standup"
	Version            = "v0.3.0"
	DefaultConfigDir   = "~/.config/standup"
	DefaultDataPath    = "~/.config/standup/data"
	ConfigFileName     = "config"
	ConfigFileType     = "yaml"
	EnvPrefix          = "STANDUP"
	APIKeyEnvVar       = "OPENAI_API_KEY"
	KeyringAPIKeyUser  = "openai-api-key"
	KeyringDBUser      = "database-connection"
	LockfileName       = "standup.lock"
	MemoryStoragePath  = "memory:"
	PostgresSchemaName = "standup"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "standup-"
	BackupFileSuffix = ".db"

	// Model defaults
	DefaultModel        = "gpt-4o-mini"
	DefaultMaxTokens    = 400
	DefaultModelTimeout = 60 * time.Second
	InputPreviewLength  = 100

	// Task statuses
	StatusTodo TaskStatus = "todo"
	StatusDone TaskStatus = "done"

	// Categories
	CategoryWork          Category = "work"
	CategoryHealth        Category = "health"
	CategoryPersonalBrand Category = "personal_brand"
	CategoryDailyChores   Category = "daily_chores"
	CategoryLearning      Category = "learning"

	// Energy levels
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryHealth,
	CategoryPersonalBrand,
	CategoryDailyChores,
	CategoryLearning,
}

// CategoryEmoji is the marker shown next to a category heading.
var CategoryEmoji = map[Category]string{
	CategoryWork:          "💼",
	CategoryHealth:        "💪",
	CategoryPersonalBrand: "📣",
	CategoryDailyChores:   "🏠",
	CategoryLearning:      "📚",
}

// ParseCategory normalizes a category label. Hyphens and spaces are accepted in
// place of underscores. Unknown labels report false.
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, c := range Categories {
		if string(c) == norm {
			return c, true
		}
	}
	return "", false
}
