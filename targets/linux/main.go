//go:build linux && !tinygo

// OpenControl daemon for Linux single-board computers (Raspberry Pi
// class). Encoders hang off sysfs GPIOs and are polled at the scan
// interval; logical events leave as MIDI CC over a serial port.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"opencontrol/core"
	"opencontrol/host/serial"
	"opencontrol/midi"
)

var (
	configFile = flag.String("config", "/etc/opencontrol.conf", "Configuration file")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	log := newLogger(*verbose)
	defer log.Sync()

	core.SetDebugWriter(func(s string) { log.Debug(s) })
	core.SetDebugEnabled(*verbose)

	dc, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal("config", zap.String("file", *configFile), zap.Error(err))
	}

	defs, err := dc.Cfg.Definitions()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	scfg := serial.DefaultConfig(dc.Device)
	scfg.Baud = serial.MIDIBaud
	port, err := serial.Open(scfg)
	if err != nil {
		log.Fatal("serial", zap.String("device", dc.Device), zap.Error(err))
	}
	defer port.Close()

	gpio := newSysfsGPIO()
	defer gpio.Close()
	core.SetGPIODriver(gpio)

	ctrl := core.NewController(defs, gpio)
	if err := ctrl.Init(); err != nil {
		log.Fatal("encoder init", zap.Error(err))
	}

	binding := midi.NewCCBinding(dc.Cfg.MIDIChannel, dc.Cfg.CCBase, defs, midi.NewSender(port))
	ctrl.SetCallback(func(id uint8, value float32) {
		binding.Handle(id, value)
		log.Debug("event", zap.Uint8("id", id), zap.Float32("value", value))
	})

	log.Info("running",
		zap.Int("encoders", ctrl.NumEncoders()),
		zap.String("midi", dc.Device),
		zap.Uint32("scan_us", dc.Cfg.ScanIntervalUS),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(dc.Cfg.ScanIntervalUS) * time.Microsecond)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			ctrl.Update()
		case <-sig:
			log.Info("shutting down")
			for i := 0; i < ctrl.NumEncoders(); i++ {
				d := ctrl.Def(i)
				if n, _ := ctrl.Faults(d.ID); n > 0 {
					log.Warn("pin faults", zap.Uint8("id", d.ID), zap.Uint32("count", n))
				}
			}
			core.DumpTraceRing()
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
