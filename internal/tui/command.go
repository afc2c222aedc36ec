package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// commandAliases maps short forms to command names.
var commandAliases = map[string]string{
	"h":  "help",
	"q":  "quit",
	"q!": "quit",
	"ch": "channel",
	"c":  "channel",
	"/":  "search",
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if alias, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = alias
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}
