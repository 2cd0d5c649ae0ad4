package constants

// User-visible strings produced by the engine.
const (
	MsgNoAPIKey      = "⚠️ No API key set. Add OPENAI_API_KEY to your .env file."
	MsgErrorFmt      = "⚠️ Error: %v"
	MsgAddedTask     = "📋 Added task: %s"
	MsgAddedGoal     = "🎯 Added weekly goal: %s"
	MsgAddedHabit    = "📅 Added daily habit: %s"
	MsgLoggedEnergy  = "🔋 Logged energy: %s"
	MsgCompleted     = "✅ Completed: %s"
	MsgCompletedGoal = "✅ Completed goal: %s"
	MsgJournaled     = "📝 Journaled"
	InsightPrefix    = "💡 "
	UserInputPrefix  = "💬 "

	DefaultContext = "# About Me\n- Role: [your role]\n- Current focus: [main project]\n- Working style: [preferences]\n"
)
