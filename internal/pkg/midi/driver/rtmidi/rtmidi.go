package rtmidi

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gethiox/cuepad/internal/pkg/logger"
	"github.com/gethiox/cuepad/internal/pkg/midi"
	"github.com/gethiox/cuepad/internal/pkg/midi/driver"
	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var log = logger.GetLogger()

type Input struct {
	port drivers.In

	mu   sync.Mutex
	stop func()
}

func (in *Input) Name() string {
	return in.port.String()
}

func (in *Input) Open() error {
	if in.port.IsOpen() {
		return nil
	}
	err := in.port.Open()
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	return nil
}

// Listen decodes incoming data and hands over channel voice messages to fn.
// Realtime, clock and sysex data is dropped.
func (in *Input) Listen(fn func(msg midi.Message)) (func(), error) {
	err := in.Open()
	if err != nil {
		return nil, err
	}

	stopFn, err := in.port.Listen(func(data []byte, milliseconds int32) {
		msg, ok := midi.FromBytes(gomidi.Message(data))
		if !ok {
			return
		}
		fn(msg)
	}, drivers.ListenConfig{
		OnErr: func(err error) {
			log.Info(fmt.Sprintf("input error: %v", err), logger.Warning, zap.String("port", in.Name()))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on device: %w", err)
	}

	in.mu.Lock()
	in.stop = stopFn
	in.mu.Unlock()
	return stopFn, nil
}

func (in *Input) Close() error {
	in.mu.Lock()
	if in.stop != nil {
		in.stop()
		in.stop = nil
	}
	in.mu.Unlock()
	return in.port.Close()
}

type Output struct {
	port drivers.Out
}

func (out *Output) Name() string {
	return out.port.String()
}

func (out *Output) Open() error {
	if out.port.IsOpen() {
		return nil
	}
	err := out.port.Open()
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	return nil
}

func (out *Output) IsOpen() bool {
	return out.port.IsOpen()
}

func (out *Output) Send(msg midi.Message) error {
	data := msg.Bytes()
	if data == nil {
		return fmt.Errorf("unsupported message type: %s", msg.Type)
	}
	return out.port.Send(data)
}

func (out *Output) Close() error {
	return out.port.Close()
}

func NewInput(in drivers.In) *Input {
	return &Input{port: in}
}

func NewOutput(out drivers.Out) *Output {
	return &Output{port: out}
}

// CreatePort opens virtual input/output pair visible to other applications under given name.
func CreatePort(name string) (driver.Port, error) {
	d := drivers.Get()
	if d == nil {
		return driver.Port{}, fmt.Errorf("failed to get driver")
	}

	rtmidid, ok := d.(*rtmididrv.Driver)
	if !ok {
		return driver.Port{}, fmt.Errorf("failed to convert driver")
	}

	in, err := rtmidid.OpenVirtualIn(name)
	if err != nil {
		return driver.Port{}, fmt.Errorf("failed to open virtual input: %w", err)
	}
	out, err := rtmidid.OpenVirtualOut(name)
	if err != nil {
		_ = in.Close()
		return driver.Port{}, fmt.Errorf("failed to open virtual output: %w", err)
	}

	return driver.Port{
		Input:  NewInput(in),
		Output: NewOutput(out),
	}, nil
}

// GetPorts returns every available port, inputs and outputs sharing port number are paired.
func GetPorts() []driver.Port {
	inPorts := gomidi.GetInPorts()
	outPorts := gomidi.GetOutPorts()

	var ports = make([]driver.Port, 0)

	var totalUniquePortNumbers = make(map[int]struct{})

	var inPortMap = make(map[int]int)
	var outPortMap = make(map[int]int)

	for i, p := range inPorts {
		inPortMap[p.Number()] = i
		totalUniquePortNumbers[p.Number()] = struct{}{}
	}

	for i, p := range outPorts {
		outPortMap[p.Number()] = i
		totalUniquePortNumbers[p.Number()] = struct{}{}
	}

	var sortedPortNumbers = make([]int, 0, len(totalUniquePortNumbers))

	for pNumber := range totalUniquePortNumbers {
		sortedPortNumbers = append(sortedPortNumbers, pNumber)
	}

	sort.Ints(sortedPortNumbers)

	for _, pNumber := range sortedPortNumbers {
		var port driver.Port

		idx, ok := inPortMap[pNumber]
		if ok {
			port.Input = NewInput(inPorts[idx])
		}

		idx, ok = outPortMap[pNumber]
		if ok {
			port.Output = NewOutput(outPorts[idx])
		}

		ports = append(ports, port)
	}

	return ports
}

func contains(name, substring string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(substring))
}

// FindPort opens first input and first output whose names contain given substrings (case-insensitive).
func FindPort(inName, outName string) (driver.Port, error) {
	var input *Input
	for _, p := range gomidi.GetInPorts() {
		if contains(p.String(), inName) {
			input = NewInput(p)
			break
		}
	}
	if input == nil {
		return driver.Port{}, fmt.Errorf("no input port matching %q", inName)
	}

	var output *Output
	for _, p := range gomidi.GetOutPorts() {
		if contains(p.String(), outName) {
			output = NewOutput(p)
			break
		}
	}
	if output == nil {
		return driver.Port{}, fmt.Errorf("no output port matching %q", outName)
	}

	err := input.Open()
	if err != nil {
		return driver.Port{}, err
	}
	err = output.Open()
	if err != nil {
		_ = input.Close()
		return driver.Port{}, err
	}

	return driver.Port{Input: input, Output: output}, nil
}

// Close releases underlying driver, all ports are closed.
func Close() {
	gomidi.CloseDriver()
}
