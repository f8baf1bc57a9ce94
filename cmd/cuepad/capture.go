package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/gethiox/cuepad/internal/pkg/utils"
	"go.uber.org/zap"
)

// captureLine turns echoed message into show file binding line, false is returned
// when message does not pass the type filter.
func captureLine(echo, filter string) (string, bool) {
	msg, err := midi.Parse(echo)
	if err != nil {
		return "", false
	}
	if filter != "" && msg.Type.String() != filter {
		return "", false
	}
	return fmt.Sprintf("- [\"%s\", \"\"]", binding.Normalize(msg)), true
}

func runCapture(ctx context.Context, wg *sync.WaitGroup, echo *utils.FanOut[string], filter string) {
	defer wg.Done()

	id, messages, err := echo.Subscribe(64)
	if err != nil {
		log.Info(fmt.Sprintf("capture unavailable: %v", err), logger.Error)
		return
	}
	defer func() {
		err := echo.Unsubscribe(id)
		if err != nil {
			log.Info(fmt.Sprintf("capture unsubscribe failed: %v", err), logger.Debug)
		}
	}()

	log.Info("capture enabled, press controls to get their bindings", logger.Info)
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-messages:
			if !ok {
				return
			}
			line, ok := captureLine(s, filter)
			if !ok {
				continue
			}
			log.Info("capture: "+line, logger.Info, zap.String("key", s))
		}
	}
}
