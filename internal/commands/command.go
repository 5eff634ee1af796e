// Package commands parses the palette's slash-command grammar and dispatches
// parsed commands to the handlers the UI wires in.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/routined/internal/cycle"
)

type Type string

const (
	TypeDone   Type = "done"
	TypeTick   Type = "tick"
	TypeShow   Type = "show"
	TypeOffset Type = "offset"
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

// DoneArgs marks the n-th occurrence on the visible day done (1-based).
type DoneArgs struct {
	Index int
}

// TickArgs increments a habit counter by name.
type TickArgs struct {
	Habit string
}

// ShowArgs moves the visible day: to today, by a relative number of days, or
// to an explicit date.
type ShowArgs struct {
	Today bool
	Delta int
	Date  time.Time
}

// OffsetArgs sets the client UTC offset in whole hours.
type OffsetArgs struct {
	Hours int
}

type Command struct {
	Type   Type
	Raw    string
	Done   *DoneArgs
	Tick   *TickArgs
	Show   *ShowArgs
	Offset *OffsetArgs
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

	switch Type(head) {
	case TypeDone:
		return parseDone(input, args)
	case TypeTick:
		return parseTick(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeOffset:
		return parseOffset(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires an occurrence number"}
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not an occurrence number: %s", args[0])}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Index: index}}, nil
}

func parseTick(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "tick requires a habit name"}
	}
	return Command{Type: TypeTick, Raw: raw, Tick: &TickArgs{Habit: name}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires today, +n/-n, or yyyy-mm-dd"}
	}
	arg := strings.ToLower(args[0])
	switch {
	case arg == "today":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Today: true}}, nil
	case strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-"):
		delta, err := strconv.Atoi(arg)
		if err != nil || delta == 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a day delta: %s", arg)}
		}
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Delta: delta}}, nil
	default:
		date, err := cycle.ParseDate(arg)
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a calendar date: %s", arg)}
		}
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Date: date}}, nil
	}
}

func parseOffset(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "offset requires whole hours east of UTC"}
	}
	hours, err := strconv.Atoi(args[0])
	if err != nil || hours > cycle.MaxUTCOffsetHours || hours < -cycle.MaxUTCOffsetHours {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a utc offset: %s", args[0])}
	}
	return Command{Type: TypeOffset, Raw: raw, Offset: &OffsetArgs{Hours: hours}}, nil
}
