package main

import (
	"context"
	"fmt"

	"github.com/gethiox/cuepad/internal/pkg/binding"
	"github.com/gethiox/cuepad/internal/pkg/controller"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/gethiox/cuepad/internal/pkg/midi/driver"
	"github.com/gethiox/cuepad/internal/pkg/show"
	"github.com/gethiox/cuepad/internal/pkg/show/config"
	"github.com/gethiox/cuepad/internal/pkg/surface"
	"go.uber.org/zap"
)

// loadShow reads show file and its bindings, skipped bindings are only reported.
func loadShow(path string) (*show.Show, *binding.Table, error) {
	s, err := config.LoadShow(path)
	if err != nil {
		return nil, nil, err
	}

	table, err := s.Bindings()
	if err != nil {
		log.Info(fmt.Sprintf("some bindings were skipped: %v", err), logger.Warning)
	}
	log.Info(fmt.Sprintf("show loaded: %d cues, %d bindings", len(s.Cues()), table.Len()), logger.Info, zap.String("owner", path))
	return s, table, nil
}

type manager struct {
	cfg     CuepadConfig
	profile surface.Profile
	port    driver.Port
	echo    controller.Publisher
	holder  *showHolder
	state   *surfaceState
}

func (m *manager) newEngine(s *show.Show, table *binding.Table) *controller.Engine {
	engine := controller.NewEngine(m.profile, s, m.port.Output, m.echo)
	engine.Feedback().Monitor(m.state.Set)
	engine.SetBindings(table)
	engine.Start(s)
	m.holder.Set(s)
	return engine
}

// run is the main program process, all messages and cue notifications are processed
// by this goroutine one at a time.
func (m *manager) run(ctx context.Context) error {
	s, table, err := loadShow(m.cfg.Cuepad.ShowFile)
	if err != nil {
		return err
	}

	messages := make(chan midi.Message, m.cfg.Cuepad.MessageBufferSize)
	stop, err := m.port.Input.Listen(func(msg midi.Message) {
		select {
		case messages <- msg:
		default:
			log.Info("message buffer full, message dropped", logger.Warning, zap.String("key", msg.String()))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to listen on input: %w", err)
	}
	defer stop()

	changes := config.DetectChanges(ctx, m.cfg.Cuepad.ShowFile)
	engine := m.newEngine(s, table)

	log.Info("Run manager", logger.Debug, zap.String("port", m.port.String()))
	for {
		select {
		case <-ctx.Done():
			engine.Stop()
			m.state.SetShift(false)
			return nil

		case msg := <-messages:
			err := engine.Handle(msg)
			if err != nil {
				log.Info(fmt.Sprintf("message handling failed: %v", err), logger.Error)
			}
			m.state.SetShift(engine.ShiftActive())

		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s, table, err := loadShow(m.cfg.Cuepad.ShowFile)
			if err != nil {
				log.Info(fmt.Sprintf("reload failed, keeping current show: %v", err), logger.Error)
				continue
			}
			engine.Stop()
			engine = m.newEngine(s, table)
			m.state.SetShift(false)
			log.Info("show reloaded", logger.Info)
		}
	}
}
