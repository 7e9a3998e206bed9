package handler

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

// ParseCommand splits a message into its command token and the trimmed rest of
// the text. The first bot_command entity wins; without one, a leading "/token"
// is accepted. A "@botname" suffix is removed from the command.
func ParseCommand(text string, entities []domain.Entity) (string, string, error) {
	for _, e := range entities {
		if e.Type != domain.EntityBotCommand {
			continue
		}
		start, end, ok := byteRange(text, e.Offset, e.Length)
		if !ok {
			return "", "", domain.ErrMalformedCommand
		}
		return stripMention(text[start:end]), strings.TrimSpace(text[end:]), nil
	}

	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") || len(trimmed) == 1 {
		return "", "", domain.ErrMalformedCommand
	}
	command, args := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i > 0 {
		command, args = trimmed[:i], trimmed[i:]
	}
	return stripMention(command), strings.TrimSpace(args), nil
}

func stripMention(command string) string {
	if i := strings.IndexByte(command, '@'); i > 0 {
		return command[:i]
	}
	return command
}

// byteRange converts a UTF-16 offset/length pair into byte indexes of text.
func byteRange(text string, offset, length int) (int, int, bool) {
	if offset < 0 || length <= 0 {
		return 0, 0, false
	}
	start, end := -1, -1
	units := 0
	for i, r := range text {
		if units == offset {
			start = i
		}
		if units == offset+length {
			end = i
			break
		}
		units += utf16.RuneLen(r)
	}
	if units == offset+length && end < 0 {
		end = len(text)
	}
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}
