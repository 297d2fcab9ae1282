package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconMail      = "\ueb1c" // mail
	IconCheck     = "✓"
	IconUnchecked = "·"
	IconWarning   = "!"
)
