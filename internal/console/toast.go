package console

import (
	"sync"
	"time"

	"github.com/xela07ax/threatintel-console/internal/console/view"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// toaster показывает одно уведомление за раз. Новое уведомление
// отменяет скрытие предыдущего.
type toaster struct {
	mu       sync.Mutex
	surface  view.Surface
	duration time.Duration
	gen      uint64
	timer    *time.Timer
}

func newToaster(surface view.Surface, duration time.Duration) *toaster {
	return &toaster{surface: surface, duration: duration}
}

func (t *toaster) Show(msg string, kind ToastKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	t.surface.SetText(view.Toast, msg)
	t.surface.SetClass(view.Toast, "toast show "+string(kind))

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.duration, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen != gen {
			return
		}
		t.surface.SetClass(view.Toast, "toast hidden")
	})
}

func (t *toaster) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
}
