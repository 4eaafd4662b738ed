package monitor

import (
	"bufio"
	"io"
	"strings"
)

// Command is an operator request handled on the loop goroutine.
type Command int

const (
	// CommandQuit stops the loop and releases the camera and window.
	CommandQuit Command = iota + 1
	// CommandReset discards the reference face so the next confirmed face
	// is enrolled.
	CommandReset
)

func (c Command) String() string {
	switch c {
	case CommandQuit:
		return "quit"
	case CommandReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseKey maps a key code from the display window to a command.
// 'q' quits, 'r' resets; every other key is ignored.
func ParseKey(key int) (Command, bool) {
	switch key {
	case 'q':
		return CommandQuit, true
	case 'r':
		return CommandReset, true
	default:
		return 0, false
	}
}

// ParseCommand maps a command name or single-letter shortcut to a command.
func ParseCommand(name string) (Command, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "q", "quit":
		return CommandQuit, true
	case "r", "reset":
		return CommandReset, true
	default:
		return 0, false
	}
}

// ReadCommands submits one command per recognized line of r until r is
// exhausted or a quit command is read. Used for headless runs where there
// is no window to receive key presses.
func ReadCommands(r io.Reader, c *Controller) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		cmd, ok := ParseCommand(sc.Text())
		if !ok {
			continue
		}
		c.Submit(cmd)
		if cmd == CommandQuit {
			return nil
		}
	}
	return sc.Err()
}
