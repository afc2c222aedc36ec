package views

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sanitizeForTerminal removes Unicode codepoints that cause rendering issues
// in tcell/tview. Specifically:
// - Skin tone modifiers (U+1F3FB..U+1F3FF) that create multi-codepoint emoji
// - Zero Width Joiner (U+200D) used in emoji sequences like family/couple emoji
// - Variation Selectors (U+FE00..U+FE0F) that modify preceding characters
// Newlines are flattened to spaces so a message fits one table row.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case !isProblematicRune(r):
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}

// slackRef matches Slack's angle-bracket references: <@U1>, <#C1|name>,
// <!here>, <https://x|label>.
var slackRef = regexp.MustCompile(`<([@#!]?)([^<>|]+)(?:\|([^<>]*))?>`)

var slackEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// slackText renders Slack markup as plain text. References keep their
// label when present, otherwise the raw ID with its sigil.
func slackText(s string) string {
	s = slackRef.ReplaceAllStringFunc(s, func(m string) string {
		g := slackRef.FindStringSubmatch(m)
		sigil, target, label := g[1], g[2], g[3]
		switch {
		case label != "" && sigil != "":
			return sigil + label
		case label != "":
			return label
		case sigil == "!":
			return "@" + target
		default:
			return sigil + target
		}
	})
	return slackEntities.Replace(s)
}

// displayText prepares message text for a table cell.
func displayText(s string) string {
	return sanitizeForTerminal(slackText(s))
}
