package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeView   Type = "view"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name     string
	Category string
	Target   float64
}

type DoneArgs struct {
	Name string
}

type DeleteArgs struct {
	Name string
}

type ViewArgs struct {
	Screen string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Delete *DeleteArgs
	View   *ViewArgs
}

// Parse turns a palette line into a Command. The grammar is
//
//	add <name> [in <category>] [target <n>]
//	done <name>
//	delete <name>
//	view <dashboard|analytics|calendar>
//
// A leading slash is tolerated so "/done water" and "done water" mean
// the same thing.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeView:
		return parseView(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}

	nameParts := make([]string, 0, len(args))
	category := ""
	target := 1.0

	i := 0
	for i < len(args) {
		switch strings.ToLower(args[i]) {
		case "in":
			if i+1 >= len(args) {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "in requires a category name"}
			}
			category = strings.ToLower(args[i+1])
			i += 2
		case "target":
			if i+1 >= len(args) {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "target requires a number"}
			}
			n, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil || n <= 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid target: %s", args[i+1])}
			}
			target = n
			i += 2
		default:
			nameParts = append(nameParts, args[i])
			i++
		}
	}

	name := strings.TrimSpace(strings.Join(nameParts, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, Category: category, Target: target}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task name"}
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Name: name}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a task name"}
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Name: name}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires a screen name"}
	}
	screen := strings.ToLower(args[0])
	switch screen {
	case "dashboard", "analytics", "calendar":
		return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Screen: screen}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown screen: %s", screen)}
	}
}
