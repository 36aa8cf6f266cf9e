package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/pomodo/internal/cycle"
	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/sandeepkv93/pomodo/internal/settings"
)

// StoreHandlers binds every command to the task-cycle and settings stores.
// Rejected operations come back as ErrCodeRejected so callers can report them.
func StoreHandlers(tasks *cycle.Store, prefs *settings.Store) Handlers {
	return Handlers{
		Add: func(a AddArgs) (Result, error) {
			task, ok := tasks.AddTask(a.Text)
			if !ok {
				return Result{}, rejected("task text is empty")
			}
			return Result{Message: fmt.Sprintf("added #%d %s", task.ID, task.Text)}, nil
		},
		Done: func(a TargetArgs) (Result, error) {
			if !tasks.CompleteTask(a.ID) {
				return Result{}, rejected(fmt.Sprintf("no pending task #%d", a.ID))
			}
			return Result{Message: fmt.Sprintf("completed #%d", a.ID)}, nil
		},
		Delete: func(a TargetArgs) (Result, error) {
			if !tasks.DeleteTask(a.ID) {
				return Result{}, rejected(fmt.Sprintf("no pending task #%d", a.ID))
			}
			return Result{Message: fmt.Sprintf("deleted #%d", a.ID)}, nil
		},
		Edit: func(a EditArgs) (Result, error) {
			if strings.TrimSpace(a.Text) == "" {
				return Result{}, rejected("task text is empty")
			}
			if !tasks.StartEdit(a.ID) {
				return Result{}, rejected(fmt.Sprintf("no pending task #%d", a.ID))
			}
			tasks.SetEditBuffer(a.ID, a.Text)
			tasks.CommitEdit(a.ID)
			return Result{Message: fmt.Sprintf("renamed #%d", a.ID)}, nil
		},
		Restore: func(a TargetArgs) (Result, error) {
			task, ok := tasks.RestoreTask(a.ID)
			if !ok {
				return Result{}, rejected(fmt.Sprintf("no finished task #%d", a.ID))
			}
			return Result{Message: fmt.Sprintf("restored as #%d %s", task.ID, task.Text)}, nil
		},
		Purge: func(a TargetArgs) (Result, error) {
			if !tasks.DeleteFinished(a.ID) {
				return Result{}, rejected(fmt.Sprintf("no finished task #%d", a.ID))
			}
			return Result{Message: fmt.Sprintf("purged #%d", a.ID)}, nil
		},
		Skip: func() (Result, error) {
			wasBreak := tasks.IsBreak()
			if !tasks.DeferCurrentTask() {
				return Result{}, rejected("nothing to skip")
			}
			if wasBreak {
				return Result{Message: "break skipped"}, nil
			}
			return Result{Message: "task moved to the end of the list"}, nil
		},
		Reset: func() (Result, error) {
			tasks.ResetAll()
			return Result{Message: "all tasks cleared"}, nil
		},
		Set: func(a SetArgs) (Result, error) {
			return applySetting(prefs, a)
		},
	}
}

func applySetting(prefs *settings.Store, a SetArgs) (Result, error) {
	switch a.Key {
	case SettingVolume:
		v, err := strconv.ParseFloat(a.Value, 64)
		if err != nil || !prefs.SetVolume(v) {
			return Result{}, invalid(fmt.Sprintf("invalid volume: %s", a.Value))
		}
		return Result{Message: fmt.Sprintf("volume %.2f", prefs.Volume())}, nil
	case SettingWork, SettingBreak:
		n, err := strconv.Atoi(a.Value)
		if err != nil {
			return Result{}, invalid(fmt.Sprintf("invalid minutes: %s", a.Value))
		}
		var ok bool
		if a.Key == SettingWork {
			ok = prefs.SetWorkMinutes(n)
		} else {
			ok = prefs.SetBreakMinutes(n)
		}
		if !ok {
			return Result{}, rejected(fmt.Sprintf("%s minutes must be positive", a.Key))
		}
		return Result{Message: fmt.Sprintf("%s period %d min", a.Key, n)}, nil
	case SettingAlarm:
		alarm, ok := findAlarm(a.Value)
		if !ok || !prefs.SelectAlarm(alarm.ID) {
			return Result{}, rejected(fmt.Sprintf("unknown alarm: %s", a.Value))
		}
		return Result{Message: fmt.Sprintf("alarm %s", alarm.Name)}, nil
	case SettingNotify:
		want, err := parseSwitch(a.Value, !prefs.NotificationsEnabled())
		if err != nil {
			return Result{}, err
		}
		if want != prefs.NotificationsEnabled() {
			prefs.ToggleNotifications()
		}
		return Result{Message: fmt.Sprintf("notifications %s", onOff(prefs.NotificationsEnabled()))}, nil
	default:
		return Result{}, invalid(fmt.Sprintf("unknown setting: %s", a.Key))
	}
}

// findAlarm accepts a catalog id or a case-insensitive name.
func findAlarm(v string) (model.Alarm, bool) {
	if id, err := strconv.Atoi(v); err == nil {
		return model.LookupAlarm(id)
	}
	for _, a := range model.Alarms() {
		if strings.EqualFold(a.Name, v) {
			return a, true
		}
	}
	return model.Alarm{}, false
}

func parseSwitch(v string, toggled bool) (bool, error) {
	switch strings.ToLower(v) {
	case "":
		return toggled, nil
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, invalid(fmt.Sprintf("expected on or off, got %s", v))
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func rejected(msg string) error {
	return &CommandError{Code: ErrCodeRejected, Message: msg}
}

func invalid(msg string) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: msg}
}
