// Package notify delivers period-end notifications to the desktop.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/sandeepkv93/pomodo/internal/cycle"
	"github.com/sandeepkv93/pomodo/internal/model"
)

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Notifier interface {
	Send(Notification) error
}

type Noop struct{}

func (Noop) Send(Notification) error { return nil }

// Desktop shells out to notify-send on Linux and osascript on macOS.
type Desktop struct{}

func (Desktop) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// ForPeriod builds the notification announcing the end of p. The alarm name
// stands in for the sound the front end would play.
func ForPeriod(p cycle.Period, alarm model.Alarm, at time.Time) Notification {
	n := Notification{Level: "info", At: at}
	switch p.Kind {
	case cycle.KindBreak:
		n.Title = "Break over"
		n.Body = fmt.Sprintf("Back to work (%s)", alarm.Name)
	default:
		n.Title = "Pomodoro finished"
		if strings.TrimSpace(p.TaskText) != "" {
			n.Body = fmt.Sprintf("%s done after %s (%s)", p.TaskText, FormatDuration(p.Seconds), alarm.Name)
		} else {
			n.Body = fmt.Sprintf("Work period done after %s (%s)", FormatDuration(p.Seconds), alarm.Name)
		}
	}
	return n
}

// FormatDuration renders seconds as MM:SS; negative input renders as 00:00.
func FormatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
