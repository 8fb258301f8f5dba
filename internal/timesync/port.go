package timesync

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tarm/serial"

	"github.com/quiffman/BulbdialClock/internal/clock"
)

var (
	framesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_frames_received",
		Help: "count of complete time frames parsed from the serial port",
	})

	framesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_frames_dropped",
		Help: "count of parsed time frames discarded because the main loop was behind",
	})
)

// DefaultBaud is the rate the clock listens at for time sync.
const DefaultBaud = 19200

// Port reads time frames from a serial device in the background and
// delivers them on a channel.
type Port struct {
	rwc    io.ReadWriteCloser
	c      chan int
	closed atomic.Bool
}

// Open opens the named serial device and starts reading frames from it.
func Open(device string, baud int) (*Port, error) {
	s, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return NewPort(s), nil
}

// NewPort starts reading frames from rwc. The port takes ownership of
// rwc; closing the port closes it.
func NewPort(rwc io.ReadWriteCloser) *Port {
	p := &Port{rwc: rwc, c: make(chan int, 4)}
	go p.read()
	return p
}

// Times delivers the dial seconds of each received frame. The channel
// is never closed; it stops carrying values once the port is closed or
// the device goes away.
func (p *Port) Times() <-chan int {
	return p.c
}

// Close stops the reader and closes the device.
func (p *Port) Close() error {
	p.closed.Store(true)
	return p.rwc.Close()
}

func (p *Port) read() {
	var parser Parser
	buf := make([]byte, 64)
	for {
		n, err := p.rwc.Read(buf)
		if n > 0 {
			for _, secs := range parser.Feed(buf[:n]) {
				framesReceived.Inc()
				fmt.Fprintf(p.rwc, "time set to %s\r\n", clock.FormatSeconds(secs))
				select {
				case p.c <- secs:
				default:
					framesDropped.Inc()
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !p.closed.Load() {
				log.Printf("timesync: read: %v", err)
			}
			return
		}
	}
}
