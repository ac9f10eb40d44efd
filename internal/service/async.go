package service

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// safeGo runs fn on its own goroutine, tracked by wg. A panic is logged with its stack
// instead of taking the process down.
func safeGo(wg *sync.WaitGroup, log zerolog.Logger, name string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("goroutine", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("goroutine panicked")
			}
		}()
		fn()
	}()
}
