package format

const (
	NothingFound   = "Nothing found"
	NoNews         = "No news found"
	NoScreenshots  = "No screenshots"
	FeedbackThanks = "thank you for your feedback!"
	FeedbackEmpty  = "looks like your feedback is empty!"
	LanguagePrompt = "set language"
	LanguageSaved  = "language saved"
	RegionPrompt   = "set region"
	RegionSaved    = "region saved"
	SettingsFailed = "could not save your settings, please try again"
	SwitchPMText   = "Back to Bot"
	SettingsHelp   = "change region: /cc\nchange language: /lang\n"
	Welcome        = "Welcome! Just type / for view list of commands, also you can use this bot with inline mode.\n" +
		"For search a game just send message with game title"
)

// Feedback is the line forwarded to the admin chat.
func Feedback(chatID int64, text string) string {
	return "feedback from: " + itoa(chatID) + ": " + text
}
