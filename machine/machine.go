// Copyright 2025, agbabi contributors

// Package machine aggregates the simulated target: the interrupt
// register surface with its dispatcher, the cartridge clock, and the
// multiplayer link with its client bank. It is the host-side stand-in
// an application or scenario script drives.
package machine

import (
	"fmt"
	"iter"
	"maps"

	"github.com/asiekierka/agbabi/hw"
	"github.com/asiekierka/agbabi/internal"
	"github.com/asiekierka/agbabi/irq"
	"github.com/asiekierka/agbabi/multiboot"
	"github.com/asiekierka/agbabi/rtc"
)

var _machine_defines = map[string]string{
	"RTC_STATUS_24HOUR": fmt.Sprintf("%#x", rtc.STATUS_24HOUR),
	"RTC_STATUS_POWER":  fmt.Sprintf("%#x", rtc.STATUS_POWER),
	"MB_HEADER_WORDS":   fmt.Sprintf("%v", multiboot.HEADER_WORDS),
	"MB_MAX_CLIENTS":    fmt.Sprintf("%v", multiboot.MAX_CLIENTS),
}

// Machine is the aggregate simulation.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Regs       *hw.RegisterFile
	Dispatcher *irq.Dispatcher

	Rtc    *rtc.Rtc
	RtcSim *rtc.Sim

	Link *multiboot.Sim
}

// New creates a machine with the nested dispatcher installed as the
// exception vector and the clock wired to the GPIO port.
func New() (m *Machine) {
	m = &Machine{
		Regs: hw.NewRegisterFile(),
		Link: multiboot.NewSim(0),
	}
	m.Dispatcher = irq.NewDispatcher(m.Regs)
	m.Regs.InstallVector(m.Dispatcher.UserVector())

	m.RtcSim = rtc.NewSim()
	m.Rtc = rtc.New(m.RtcSim)

	return
}

// Reset returns the register surface to its post-reset state. The
// installed vector, the clock contents and the link are retained.
func (m *Machine) Reset() {
	m.Regs.Verbose = m.Verbose
	m.Dispatcher.Verbose = m.Verbose
	m.RtcSim.Verbose = m.Verbose
	m.Link.Verbose = m.Verbose

	m.Regs.Reset()
}

// Defines returns an iterator over all of the symbolic constants of
// the simulated target.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		hw.Defines(),
		maps.All(_machine_defines),
	)
}
