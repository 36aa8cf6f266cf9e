package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeDelete  Type = "del"
	TypeEdit    Type = "edit"
	TypeRestore Type = "restore"
	TypePurge   Type = "purge"
	TypeSkip    Type = "skip"
	TypeReset   Type = "reset"
	TypeSet     Type = "set"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeRejected        ErrorCode = "rejected"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Setting names accepted by the set command.
const (
	SettingVolume = "volume"
	SettingWork   = "work"
	SettingBreak  = "break"
	SettingAlarm  = "alarm"
	SettingNotify = "notify"
)

type AddArgs struct {
	Text string
}

// TargetArgs names a task by id. Done and del address pending tasks;
// restore and purge address finished records.
type TargetArgs struct {
	ID int
}

type EditArgs struct {
	ID   int
	Text string
}

type SetArgs struct {
	Key   string
	Value string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Edit   *EditArgs
	Set    *SetArgs
}

var aliases = map[string]Type{
	"rm":       TypeDelete,
	"delete":   TypeDelete,
	"complete": TypeDone,
	"defer":    TypeSkip,
}

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
	if alias, ok := aliases[head]; ok {
		head = string(alias)
	}

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete, TypeRestore, TypePurge:
		return parseTarget(Type(head), input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeSkip, TypeReset:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeSet:
		return parseSet(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseTarget(t Type, raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one task id", t)}
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: t, Raw: raw, Target: &TargetArgs{ID: id}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a task id and new text"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{ID: id, Text: strings.Join(args[1:], " ")}}, nil
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a setting name"}
	}
	key := strings.ToLower(args[0])
	value := strings.TrimSpace(strings.Join(args[1:], " "))
	switch key {
	case SettingVolume, SettingWork, SettingBreak, SettingAlarm:
		if value == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("set %s requires a value", key)}
		}
	case SettingNotify:
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown setting: %s", key)}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Key: key, Value: value}}, nil
}

func parseID(v string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(v, "#"))
	if err != nil || id <= 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task id: %s", v)}
	}
	return id, nil
}
