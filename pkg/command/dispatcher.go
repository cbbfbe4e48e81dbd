package command

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
)

const EmptyInputMessage = "Please enter a command. Type 'help' for available commands."

// Dispatcher parses player input and runs the matching handler.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Verb returns the lowercased first token of input.
func Verb(input string) string {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Parse runs one line of input against cc. Handler errors and panics come
// back as failure Results; Parse itself never panics.
func (d *Dispatcher) Parse(input string, cc *Context) (res Result) {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(tokens) == 0 {
		return Fail(EmptyInputMessage)
	}
	verb, args := tokens[0], tokens[1:]

	cmd, ok := d.registry.Lookup(verb)
	if !ok || cmd.Handler == nil {
		return Failf("Unknown command: '%s'. Type 'help' for available commands.", verb)
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Command handler panicked",
				"command", cmd.Name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			res = Failf("The %s command malfunctioned.", cmd.Name)
		}
	}()

	cc.Verb, cc.Input = verb, strings.TrimSpace(input)
	defer func() { cc.Verb, cc.Input = "", "" }()

	res, err := cmd.Handler(args, cc)
	if err != nil {
		d.logger.Error("Command handler failed",
			"command", cmd.Name,
			"error", err)
		return Failf("The %s command failed: %v", cmd.Name, err)
	}
	d.logger.Debug("Command handled",
		"command", cmd.Name,
		"success", res.Success)
	return res
}
