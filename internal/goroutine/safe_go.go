package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/foodshare/foodshare-backend/internal/logger"
)

// SafeGo запускает горутину с перехватом panic. Уроненная фоновая
// горутина не должна ронять процесс.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и перехватом panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverPanic()
		fn(ctx)
	}()
}

func recoverPanic() {
	if r := recover(); r != nil {
		logger.Log.Errorf("goroutine: перехвачен panic: %v\n%s", r, debug.Stack())
	}
}
