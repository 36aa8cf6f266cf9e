package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Done    func(TargetArgs) (Result, error)
	Delete  func(TargetArgs) (Result, error)
	Edit    func(EditArgs) (Result, error)
	Restore func(TargetArgs) (Result, error)
	Purge   func(TargetArgs) (Result, error)
	Skip    func() (Result, error)
	Reset   func() (Result, error)
	Set     func(SetArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Target)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Edit(*cmd.Edit)
	case TypeRestore:
		if handlers.Restore == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Restore(*cmd.Target)
	case TypePurge:
		if handlers.Purge == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Purge(*cmd.Target)
	case TypeSkip:
		if handlers.Skip == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Skip()
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Reset()
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
