package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Done   func(DoneArgs) (Result, error)
	Tick   func(TickArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Offset func(OffsetArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeTick:
		if handlers.Tick == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "tick handler not configured"}
		}
		return handlers.Tick(*cmd.Tick)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	case TypeOffset:
		if handlers.Offset == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "offset handler not configured"}
		}
		return handlers.Offset(*cmd.Offset)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
