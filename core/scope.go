package core

import "strings"

// Scope classifies the lifetime and visibility of a state key. The scope of a
// key is determined purely by its prefix, never by the session that wrote it.
type Scope int

const (
	// ScopeSession keys (no prefix) live and die with a single session.
	ScopeSession Scope = iota
	// ScopeUser keys persist across every session owned by the same user.
	ScopeUser
	// ScopeApp keys are shared process-wide across all users and sessions.
	ScopeApp
	// ScopeTemp keys are session-local and excluded from the consolidated
	// context handed to generation calls.
	ScopeTemp
)

// Key prefixes recognized by KeyScope.
const (
	UserKeyPrefix = "user:"
	AppKeyPrefix  = "app:"
	TempKeyPrefix = "temp:"
)

// KeyScope returns the scope encoded in the key's prefix.
func KeyScope(key string) Scope {
	switch {
	case strings.HasPrefix(key, UserKeyPrefix):
		return ScopeUser
	case strings.HasPrefix(key, AppKeyPrefix):
		return ScopeApp
	case strings.HasPrefix(key, TempKeyPrefix):
		return ScopeTemp
	default:
		return ScopeSession
	}
}

// String returns the lowercase scope name.
func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopeUser:
		return "user"
	case ScopeApp:
		return "app"
	case ScopeTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// Well-known snapshot keys. Unknown keys are carried opaquely; these are the
// ones the orchestrator and context consolidation read back by name.
const (
	KeyCurrentStep       = "current_step"
	KeyLastMessage       = "chat_context.last_message"
	KeyLastResponse      = "chat_context.last_response"
	KeyObjectives        = "objectives"
	KeyDocumentType      = "output_type"
	KeyBloomLevel        = "blooms_level"
	KeyAssessments       = "assessments"
	KeyCourseID          = "current_course_id"
	KeyCourseTitle       = "current_course_title"
	KeyCourseDescription = "current_course_description"
	KeyCourseLevel       = "current_course_level"
	KeyProfileID         = "user:profile_id"
	KeyProfileName       = "user:name"
	KeyProfileEmail      = "user:email"
	KeyPreferences       = "user:preferences"
	KeyAppVersion        = "app:version"
	KeyAppLanguages      = "app:supported_languages"
)
