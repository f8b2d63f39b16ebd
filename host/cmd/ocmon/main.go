// ocmon - live monitor for a control surface's MIDI output.
//
// Connects to the device's serial port, de-frames Control Change
// messages and logs them as they arrive. Useful for verifying encoder
// wiring and mapping without a DAW attached.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"opencontrol/host/monitor"
	"opencontrol/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC; use 31250 for DIN MIDI)")
	verbose = flag.Bool("verbose", false, "Enable debug logging")
	stats   = flag.Duration("stats", 10*time.Second, "Stream counter report interval (0 disables)")
)

func main() {
	flag.Parse()

	log := newLogger(*verbose)
	defer log.Sync()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		log.Fatal("failed to open serial port", zap.String("device", *device), zap.Error(err))
	}

	m := monitor.New(port)
	m.Start()
	defer m.Close()

	log.Info("monitoring", zap.String("device", *device), zap.Int("baud", *baud))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var tick <-chan time.Time
	if *stats > 0 {
		t := time.NewTicker(*stats)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case ev, ok := <-m.Events():
			if !ok {
				log.Warn("device stream ended")
				return
			}
			log.Info("cc",
				zap.Uint8("channel", ev.Channel),
				zap.Uint8("cc", ev.CC),
				zap.Uint8("value", ev.Value),
			)
		case <-tick:
			s := m.Stats()
			log.Debug("stream counters",
				zap.Uint64("bytes", s.Bytes),
				zap.Uint64("messages", s.Messages),
				zap.Uint64("ignored", s.Ignored),
				zap.Uint64("dropped", s.Dropped),
			)
		case <-sig:
			log.Info("shutting down")
			return
		}
	}
}

// newLogger builds a console logger; debug level when verbose.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)
	return zap.New(core)
}
