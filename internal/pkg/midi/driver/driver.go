package driver

import (
	"fmt"

	"github.com/gethiox/cuepad/internal/pkg/midi"
)

// Input delivers decoded channel voice messages in arrival order, one at a time.
type Input interface {
	Name() string
	Listen(fn func(msg midi.Message)) (stop func(), err error)
	Close() error
}

type Output interface {
	Name() string
	IsOpen() bool
	Send(msg midi.Message) error
	Close() error
}

type Port struct {
	// specific port may be nil if unavailable
	Input  Input
	Output Output
}

func (p *Port) String() string {
	if p.Input == nil && p.Output == nil {
		return "(unavailable)"
	}

	if p.Input == nil {
		return fmt.Sprintf("%s (Output only)", p.Output.Name())
	}

	if p.Output == nil {
		return fmt.Sprintf("%s (Input only)", p.Input.Name())
	}

	inName, outName := p.Input.Name(), p.Output.Name()

	var commonPart string

	for i := 0; i < min(len(inName), len(outName)); i++ {
		if inName[i] != outName[i] {
			break
		}
		commonPart += string(inName[i])
	}
	return fmt.Sprintf("%s (Input/Output)", commonPart)
}
