package bot

import (
	"strings"

	"unlockbot/pkg/conversation"
)

// parseMessage превращает текст личного сообщения в событие.
// "/cmd@botname arg" становится командой cmd с аргументом arg.
func parseMessage(userID int64, text string) conversation.Event {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return conversation.Event{UserID: userID, Kind: conversation.KindText, Text: text}
	}
	head, arg, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return conversation.Event{
		UserID:  userID,
		Kind:    conversation.KindCommand,
		Text:    text,
		Command: strings.ToLower(head),
		Arg:     strings.TrimSpace(arg),
	}
}

// parseCallback превращает данные нажатой кнопки в событие.
func parseCallback(userID int64, data []byte) conversation.Event {
	return conversation.Event{UserID: userID, Kind: conversation.KindButton, Action: string(data)}
}

// splitText режет текст на части не длиннее limit символов, по возможности по переводу строки.
func splitText(s string, limit int) []string {
	if limit <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 || len(parts) == 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
