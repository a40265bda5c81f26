package dispatcher

import (
	"strings"
)

const (
	CommandStart     = "start"
	CommandHelp      = "help"
	CommandStock     = "stock"
	CommandNews      = "news"
	CommandMonitor   = "monitor"
	CommandUnmonitor = "unmonitor"
	CommandList      = "list"
)

// Portuguese command names kept for existing users.
var aliases = map[string]string{
	"ajuda":     CommandHelp,
	"acao":      CommandStock,
	"noticias":  CommandNews,
	"monitorar": CommandMonitor,
	"parar":     CommandUnmonitor,
	"lista":     CommandList,
}

// ParseCommand splits "/name@bot arg1 arg2" into a canonical command name and
// its arguments. ok is false for text that is not a command.
func ParseCommand(text string) (name string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}

	name = strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ToLower(name)
	if name == "" {
		return "", nil, false
	}
	if canonical, found := aliases[name]; found {
		name = canonical
	}

	return name, fields[1:], true
}
