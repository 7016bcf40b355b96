// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package peripheral

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/ezrec/rmttx/pulse"
)

type simChannel struct {
	config     ChannelConfig
	configured bool
	driver     bool

	source  pulse.Train // Driver write path. Nil when transmitting from memory.
	running bool
	pos     int // Transmit index into source or memory.
	sent    int // Items sent since the last threshold interrupt.
	limit   int // Threshold, zero if disabled.
	pass    chan struct{}

	wave Waveform
}

// Sim is a software model of the transmitter.
//
// Tick advances every running channel by one pulse item. Without a running
// clock (see Run), blocking writes advance their channel inline.
type Sim struct {
	Verbose bool // If set, enables verbose logging.

	mu      sync.Mutex
	raw     uint32 // Raw interrupt status.
	enable  uint32 // Interrupt enable.
	handler func()
	memory  [MEMORY_ITEMS]uint32
	channel [CHANNEL_COUNT]simChannel
	clocked bool

	isr sync.Mutex // Serialises interrupt context.
}

var _ Peripheral = (*Sim)(nil)

// NewSim creates a new, unconfigured, simulated transmitter.
func NewSim() (sim *Sim) {
	sim = &Sim{}
	return
}

func (sim *Sim) get(channel int) (ch *simChannel, err error) {
	if channel < 0 || channel >= CHANNEL_COUNT {
		err = ErrChannel{Channel: channel, Err: ErrInvalidArg}
		return
	}
	ch = &sim.channel[channel]
	if !ch.configured {
		err = ErrChannel{Channel: channel, Err: ErrInvalidState}
	}
	return
}

func (sim *Sim) window(channel int) []uint32 {
	ch := &sim.channel[channel]
	base := channel * ITEMS_PER_BLOCK
	return sim.memory[base : base+ch.config.Capacity()]
}

// SetHandler installs the interrupt handler.
func (sim *Sim) SetHandler(isr func()) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.handler = isr
}

// Status returns the raw interrupt status masked by the enable register.
func (sim *Sim) Status() uint32 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.raw & sim.enable
}

// Raw returns the unmasked interrupt status.
func (sim *Sim) Raw() uint32 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.raw
}

func (sim *Sim) Clear(mask uint32) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.raw &^= mask
}

func (sim *Sim) Enable(mask uint32) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.enable |= mask
}

func (sim *Sim) Disable(mask uint32) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.enable &^= mask
}

// Enabled returns the interrupt enable register.
func (sim *Sim) Enabled() uint32 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.enable
}

// Configure applies a channel configuration. The channel's memory blocks
// must all exist.
func (sim *Sim) Configure(cfg ChannelConfig) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if cfg.Channel < 0 || cfg.Channel >= CHANNEL_COUNT {
		err = ErrChannel{Channel: cfg.Channel, Err: ErrInvalidArg}
		return
	}
	if cfg.MemBlocks < 1 || cfg.Channel+cfg.MemBlocks > BLOCK_COUNT ||
		cfg.ClockDivider < 1 || cfg.ClockDivider > DIVIDER_MAX ||
		cfg.Pin < 0 || cfg.Pin > PIN_MAX {
		err = ErrChannel{Channel: cfg.Channel, Err: ErrInvalidArg}
		return
	}

	ch := &sim.channel[cfg.Channel]
	ch.config = cfg
	ch.configured = true
	ch.limit = 0

	if sim.Verbose {
		log.Printf("sim: channel %d: pin %d, %d blocks, divider %d", cfg.Channel, cfg.Pin, cfg.MemBlocks, cfg.ClockDivider)
	}

	return
}

// Config returns the current configuration of a channel.
func (sim *Sim) Config(channel int) (cfg ChannelConfig, ok bool) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if channel < 0 || channel >= CHANNEL_COUNT {
		return
	}
	ch := &sim.channel[channel]
	return ch.config, ch.configured
}

func (sim *Sim) InstallDriver(channel int) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	if ch.driver {
		err = ErrChannel{Channel: channel, Err: ErrInvalidState}
		return
	}
	ch.driver = true
	return
}

func (sim *Sim) UninstallDriver(channel int) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	if !ch.driver {
		err = ErrChannel{Channel: channel, Err: ErrInvalidState}
		return
	}
	ch.driver = false
	return
}

// Driver reports whether the channel's driver is installed.
func (sim *Sim) Driver(channel int) bool {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if channel < 0 || channel >= CHANNEL_COUNT {
		return false
	}
	return sim.channel[channel].driver
}

// WriteItems transmits a copy of items through the driver. When wait is
// set it returns once every item has been sent once.
func (sim *Sim) WriteItems(channel int, items pulse.Train, wait bool) (err error) {
	sim.mu.Lock()

	ch, err := sim.get(channel)
	if err != nil {
		sim.mu.Unlock()
		return
	}
	if !ch.driver {
		sim.mu.Unlock()
		err = ErrChannel{Channel: channel, Err: ErrInvalidState}
		return
	}

	ch.source = slices.Clone(items)
	ch.pos = 0
	ch.sent = 0
	ch.running = true
	sim.endPass(ch)
	pass := make(chan struct{})
	ch.pass = pass
	if len(items) == 0 {
		ch.running = false
		sim.endPass(ch)
		sim.raw |= IntrMask(channel, INTR_TX_END)
	}

	clocked := sim.clocked
	sim.mu.Unlock()

	if len(items) == 0 {
		sim.interrupt()
		return
	}

	if !wait {
		return
	}

	if clocked {
		<-pass
		return
	}

	for {
		select {
		case <-pass:
			return
		default:
		}
		sim.mu.Lock()
		sim.step(channel)
		sim.mu.Unlock()
		sim.interrupt()
	}
}

// FillItem writes an item into channel memory. Afterwards the channel
// transmits from memory rather than from the driver.
func (sim *Sim) FillItem(channel int, offset int, item pulse.Item) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	mem := sim.window(channel)
	if offset < 0 || offset >= len(mem) {
		err = ErrChannel{Channel: channel, Err: ErrInvalidArg}
		return
	}

	mem[offset] = item.Word()
	ch.source = nil
	return
}

// Memory returns the decoded contents of a channel's memory.
func (sim *Sim) Memory(channel int) (train pulse.Train) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if _, err := sim.get(channel); err != nil {
		return
	}
	for _, word := range sim.window(channel) {
		train = append(train, pulse.FromWord(word))
	}
	return
}

func (sim *Sim) SetThreshold(channel int, count int) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	if count < 0 || count > ch.config.Capacity() {
		err = ErrChannel{Channel: channel, Err: ErrInvalidArg}
		return
	}
	ch.limit = count
	ch.sent = 0
	return
}

// Threshold returns the threshold count of a channel.
func (sim *Sim) Threshold(channel int) int {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if channel < 0 || channel >= CHANNEL_COUNT {
		return 0
	}
	return sim.channel[channel].limit
}

func (sim *Sim) Start(channel int, resetIndex bool) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	if resetIndex {
		ch.pos = 0
		ch.sent = 0
	}
	ch.running = true
	return
}

func (sim *Sim) Stop(channel int) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	ch.running = false
	sim.endPass(ch)
	return
}

func (sim *Sim) SetLoop(channel int, loop bool) (err error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	ch, err := sim.get(channel)
	if err != nil {
		return
	}
	ch.config.Loop = loop
	return
}

// Running reports whether a channel is transmitting.
func (sim *Sim) Running(channel int) bool {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if channel < 0 || channel >= CHANNEL_COUNT {
		return false
	}
	return sim.channel[channel].running
}

// Idle is true when no channel is transmitting.
func (sim *Sim) Idle() bool {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	for n := range sim.channel {
		if sim.channel[n].running {
			return false
		}
	}
	return true
}

// Waveform returns a copy of the output captured on a channel.
func (sim *Sim) Waveform(channel int) (wave Waveform) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if channel < 0 || channel >= CHANNEL_COUNT {
		return
	}
	wave = sim.channel[channel].wave
	wave.Segments = slices.Clone(wave.Segments)
	return
}

// ResetWaveform discards the output captured on a channel.
func (sim *Sim) ResetWaveform(channel int) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if channel < 0 || channel >= CHANNEL_COUNT {
		return
	}
	sim.channel[channel].wave = Waveform{}
}

// InjectError raises the error interrupt of a channel.
func (sim *Sim) InjectError(channel int) {
	sim.mu.Lock()
	sim.raw |= IntrMask(channel, INTR_ERR)
	sim.mu.Unlock()

	sim.interrupt()
}

// Tick advances every running channel by one pulse item, then services
// interrupts. It returns the number of channels that advanced.
func (sim *Sim) Tick() (busy int) {
	sim.mu.Lock()
	for n := range sim.channel {
		if sim.channel[n].running {
			sim.step(n)
			busy++
		}
	}
	sim.mu.Unlock()

	sim.interrupt()

	return
}

// Run ticks the simulation every interval until the context is done.
func (sim *Sim) Run(ctx context.Context, interval time.Duration) error {
	sim.mu.Lock()
	sim.clocked = true
	sim.mu.Unlock()

	defer func() {
		sim.mu.Lock()
		sim.clocked = false
		sim.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			sim.Tick()
		}
	}
}

// interrupt calls the handler while enabled interrupts are pending.
func (sim *Sim) interrupt() {
	sim.isr.Lock()
	defer sim.isr.Unlock()

	sim.mu.Lock()
	pending := sim.raw&sim.enable != 0
	handler := sim.handler
	sim.mu.Unlock()

	if pending && handler != nil {
		handler()
	}
}

// step transmits one item on a channel. Caller holds sim.mu.
func (sim *Sim) step(channel int) {
	ch := &sim.channel[channel]
	if !ch.running {
		return
	}

	var item pulse.Item
	if ch.source != nil {
		if ch.pos >= len(ch.source) {
			ch.running = false
			return
		}
		item = ch.source[ch.pos]
	} else {
		item = pulse.FromWord(sim.window(channel)[ch.pos])
	}

	ch.wave.Items++
	if item.Duration0 != 0 {
		ch.wave.add(Level(item.Level0), int(item.Duration0))
		if item.Duration1 != 0 {
			ch.wave.add(Level(item.Level1), int(item.Duration1))
		}
	}

	if item.End() {
		sim.finish(channel)
		return
	}

	ch.pos++
	if ch.source != nil {
		if ch.pos == len(ch.source) {
			sim.finish(channel)
		}
		return
	}

	if ch.pos == ch.config.Capacity() {
		ch.pos = 0
	}

	ch.sent++
	if ch.limit > 0 && ch.sent == ch.limit {
		ch.sent = 0
		sim.raw |= IntrMask(channel, INTR_THRESHOLD)
	}
}

// finish ends a transmission pass. Looping channels start over.
func (sim *Sim) finish(channel int) {
	ch := &sim.channel[channel]
	sim.endPass(ch)

	ch.pos = 0
	ch.sent = 0
	if ch.config.Loop {
		return
	}

	ch.running = false
	sim.raw |= IntrMask(channel, INTR_TX_END)

	if sim.Verbose {
		log.Printf("sim: channel %d: tx end, %d items", channel, ch.wave.Items)
	}
}

func (sim *Sim) endPass(ch *simChannel) {
	if ch.pass != nil {
		close(ch.pass)
		ch.pass = nil
	}
}
