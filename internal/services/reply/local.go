// File: internal/services/reply/local.go
package reply

import "strings"

// Canned conversational responses used while the remote model is cooling
// down. Keyword triggers are matched case-insensitively against the
// corrected utterance; the first match wins.

type cannedResponse struct {
	keywords []string
	reply    string
}

var cannedTable = []cannedResponse{
	{
		keywords: []string{"hello", "hi ", "hey"},
		reply:    "Hello! It's great to practice with you. What would you like to talk about today?",
	},
	{
		keywords: []string{"how are you"},
		reply:    "I'm doing well, thank you for asking! How has your day been so far?",
	},
	{
		keywords: []string{"weather"},
		reply:    "Talking about the weather is a classic! Is it sunny or rainy where you are?",
	},
	{
		keywords: []string{"thank"},
		reply:    "You're very welcome! Keep practicing, you're doing great.",
	},
	{
		keywords: []string{"bye", "goodbye", "see you"},
		reply:    "Goodbye! Great talking with you. Come back soon to practice more.",
	},
	{
		keywords: []string{"name"},
		reply:    "I'm your English practice partner. What's your name?",
	},
}

const defaultCannedReply = "That's interesting! Can you tell me more about that?"

// ReplyLocally returns a keyword-triggered canned response, or the generic
// default when nothing matches.
func ReplyLocally(text string) string {
	normalized := " " + strings.ToLower(strings.TrimSpace(text)) + " "
	for _, c := range cannedTable {
		for _, kw := range c.keywords {
			if strings.Contains(normalized, kw) {
				return c.reply
			}
		}
	}
	return defaultCannedReply
}
