package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages receives every encoded log entry. Entries are dropped when nobody keeps up with reading,
// logging must never stall message routing.
var Messages = make(chan []byte, 512)

const (
	ErrorLvl           = 0
	WarningLvl         = 1
	InfoLvl            = 2
	ActionLvl          = 3
	MessagesLvl        = 4
	MessagesUnboundLvl = 5
	FeedbackLvl        = 6

	DebugLvl = 378
)

var (
	Error          = zap.Int("level", ErrorLvl)
	Warning        = zap.Int("level", WarningLvl)
	Info           = zap.Int("level", InfoLvl)
	Action         = zap.Int("level", ActionLvl)
	Message        = zap.Int("level", MessagesLvl)
	MessageUnbound = zap.Int("level", MessagesUnboundLvl)
	Feedback       = zap.Int("level", FeedbackLvl)

	Debug = zap.Int("level", DebugLvl)
)

type chanWriter struct {
	sync.Mutex
	dropped uint64
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	select {
	case Messages <- newSlice:
	default:
		w.dropped++
	}
	w.Unlock()
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

var (
	once   sync.Once
	shared *zap.Logger
)

// GetLogger returns process-wide logger writing JSON entries into Messages.
func GetLogger() *zap.Logger {
	once.Do(func() {
		writer := &chanWriter{}
		cfg := zap.NewProductionEncoderConfig()
		cfg.SkipLineEnding = true
		cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
		cfg.LevelKey = ""
		encoder := zapcore.NewJSONEncoder(cfg)

		shared = zap.New(
			zapcore.NewCore(encoder, zapcore.Lock(writer), zap.DebugLevel),
			zap.AddCaller(),
		)
	})
	return shared
}
