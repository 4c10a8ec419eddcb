package emoji

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"alert":   {"⚠️", "[!]"},
	"shield":  {"🛡️", "[OK]"},
	"upload":  {"📤", "[UP]"},
	"file":    {"📄", "[FILE]"},
	"cpu":     {"🧠", "[AI]"},
	"error":   {"❌", "[ERR]"},
	"success": {"✅", "[OK]"},
	"results": {"📊", "[RES]"},
	"watch":   {"👀", "[WATCH]"},
	"rocket":  {"🚀", "[>]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns the emoji for key, or its ASCII fallback when emojis are disabled
func GetEmoji(key string) string {
	mapping, exists := emojiMap[key]
	if !exists {
		return "[?]"
	}
	if emojiDisabled {
		return mapping[1]
	}
	return mapping[0]
}

// Status returns the status icon for a result row
func Status(alert bool) string {
	if alert {
		return GetEmoji("alert")
	}
	return GetEmoji("shield")
}
