package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi/driver"
	"github.com/gethiox/cuepad/internal/pkg/midi/driver/rtmidi"
	"github.com/gethiox/cuepad/internal/pkg/surface"
	_ "github.com/gethiox/cuepad/internal/pkg/surface/apcmini"
	"github.com/gethiox/cuepad/internal/pkg/utils"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

func handleSigs(ctx context.Context, wg *sync.WaitGroup, cancel func()) {
	defer wg.Done()

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var counter int
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			if counter > 0 {
				fmt.Println("Dirty exit")
				os.Exit(1)
			}
			log.Info(fmt.Sprintf("signal received: %v", sig), logger.Info)
			cancel()
			counter++
		}
	}
}

func runUI(ctx context.Context, cancel func(), colors bool, logLevel int, cfg CuepadConfig, layout surface.Layout,
	logs <-chan []byte, state *surfaceState, holder *showHolder) <-chan struct{} {
	g, err := GetCli()
	if err != nil {
		panic(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer g.Close()
		if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
			panic(err)
		}
		cancel()
	}()

	go func() {
		<-ctx.Done()
		g.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	}()

	// waiting for view init
	for {
		_, err := g.View(ViewLogs)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return done
		case <-time.After(time.Millisecond * 10):
		}
	}

	go logView(g, colors, logLevel, cfg.Cuepad.LogBufferSize, cfg.Cuepad.LogViewRate, logs)
	go surfaceView(g, colors, state, layout)
	go overviewView(g, colors, holder)
	return done
}

// printLogs writes log entries to stdout when interactive UI is not used.
func printLogs(wg *sync.WaitGroup, colors bool, logLevel int, logs <-chan []byte) {
	defer wg.Done()
	au := aurora.NewAurora(colors)
	for data := range logs {
		msg, err := unpack(data)
		if err != nil {
			fmt.Println(string(data))
			continue
		}
		s := prepareString(msg, au, -1, logLevel)
		if s != "" {
			fmt.Println(s)
		}
	}
}

func listPorts() {
	ports := rtmidi.GetPorts()
	if len(ports) == 0 {
		fmt.Println("No MIDI ports available")
		return
	}
	for i, p := range ports {
		var in, out = "-", "-"
		if p.Input != nil {
			in = p.Input.Name()
		}
		if p.Output != nil {
			out = p.Output.Name()
		}
		fmt.Printf("%d: %s (input: %s, output: %s)\n", i, p.String(), in, out)
	}
}

func openPort(cfg CuepadConfig, virtual bool) (driver.Port, error) {
	if virtual {
		return rtmidi.CreatePort(cfg.Cuepad.VirtualName)
	}
	return rtmidi.FindPort(cfg.Cuepad.Input, cfg.Cuepad.Output)
}

func closePort(port driver.Port) {
	if port.Input != nil {
		err := port.Input.Close()
		if err != nil {
			log.Info(fmt.Sprintf("failed to close input: %v", err), logger.Warning)
		}
	}
	if port.Output != nil {
		err := port.Output.Close()
		if err != nil {
			log.Info(fmt.Sprintf("failed to close output: %v", err), logger.Warning)
		}
	}
}

func main() {
	var ui, noColor, silent, list, virtual, capture bool
	var logLevel int
	var configPath, captureFilter string

	flag.BoolVar(&ui, "ui", false, "runs interactive terminal interface with surface preview")
	flag.BoolVar(&noColor, "nocolor", false, "disables colors in log output")
	flag.IntVar(&logLevel, "loglevel", 0,
		"logging level, each level enables additional information class (0-5, default: 0)\n"+
			"\navailable options:\n"+
			"0: standard (info, warnings, errors)\n"+
			"1: executed actions\n"+
			"2: bound messages\n"+
			"3: unbound messages\n"+
			"4: feedback sent to the surface\n"+
			"5: debug",
	)
	flag.BoolVar(&silent, "silent", false, "disables log output entirely")
	flag.StringVar(&configPath, "config", configDir+"/cuepad.config", "path to cuepad config file")
	flag.BoolVar(&list, "list", false, "lists available MIDI ports and exits")
	flag.BoolVar(&virtual, "virtual", false, "creates virtual port pair instead of connecting to existing one")
	flag.BoolVar(&capture, "capture", false, "logs every received message as show file binding line")
	flag.StringVar(&captureFilter, "capture-filter", "", "captures only given message type (e.g. note_on, control_change)")
	flag.Parse()

	if list {
		listPorts()
		rtmidi.Close()
		return
	}

	if logLevel > 4 {
		logLevel = logger.DebugLvl
	} else {
		logLevel += logger.InfoLvl
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// this wait-group has to be propagated everywhere where usual logging appear
	wg := sync.WaitGroup{}
	logWg := sync.WaitGroup{}

	logs := utils.NewFanOut[[]byte]()
	logsCtx, cancelLogs := context.WithCancel(context.Background())
	go logs.Forward(logsCtx, logger.Messages)

	state := newSurfaceState()
	holder := &showHolder{}
	var uiDone <-chan struct{}

	err := createConfigDirectoryIfNeeded()
	if err != nil {
		fmt.Printf("Failed to create config directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := LoadCuepadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	profile, err := surface.Get(cfg.Surface.Profile)
	if err != nil {
		fmt.Printf("Failed to load surface profile: %v\n", err)
		os.Exit(1)
	}

	if !silent {
		_, messages, err := logs.Subscribe(cfg.Cuepad.LogBufferSize)
		if err != nil {
			panic(err)
		}
		if ui {
			uiDone = runUI(ctx, cancel, !noColor, logLevel, cfg, profile.Layout(), messages, state, holder)
		} else {
			logWg.Add(1)
			go printLogs(&logWg, !noColor, logLevel, messages)
		}
	}

	log.Info(fmt.Sprintf("cuepad config: %+v", cfg), logger.Debug)

	wg.Add(1)
	go handleSigs(ctx, &wg, cancel)

	port, err := openPort(cfg, virtual)
	if err != nil {
		log.Info(fmt.Sprintf("Failed to open MIDI port: %v", err), logger.Error)
		cancel()
	} else {
		log.Info("MIDI port opened", logger.Info, zap.String("port", port.String()))

		echo := utils.NewFanOut[string]()
		if capture {
			wg.Add(1)
			go runCapture(ctx, &wg, echo, captureFilter)
		}

		m := &manager{
			cfg:     cfg,
			profile: profile,
			port:    port,
			echo:    echo,
			holder:  holder,
			state:   state,
		}
		err = m.run(ctx)
		if err != nil {
			log.Info(fmt.Sprintf("manager stopped: %v", err), logger.Error)
		}
		cancel()
		echo.Close()
		closePort(port)
	}

	wg.Wait()
	if uiDone != nil {
		<-uiDone
	}
	rtmidi.Close()
	log.Info("bye", logger.Info)

	// closing log fan-out can be safely invoked only when all goroutines that may emit logs are done
	time.Sleep(time.Millisecond * 50)
	cancelLogs()
	logs.Close()
	logWg.Wait()

	if err != nil {
		os.Exit(1)
	}
}
