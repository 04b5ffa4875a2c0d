package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
	"lib.hemtjan.st/client"
	"lib.hemtjan.st/device"
	"lib.hemtjan.st/transport/mqtt"

	"hemtjan.st/kraft-sml/internal/config"
	"hemtjan.st/kraft-sml/sml"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	def := config.Default()
	configFile := flag.String("config", "", "Path to YAML config file")
	serialDevice := flag.String("device", def.Serial.Device, "Serial device")
	baudFlag := flag.Int("speed", def.Serial.Baud, "Baud rate of serial port")
	parity := flag.String("parity", def.Serial.Parity, "Parity of serial port (none, even, odd)")
	topicName := flag.String("topic", def.Device.Topic, "Topic of hemtjanst device")
	name := flag.String("name", def.Device.Name, "Name of hemtjanst device")
	logLevel := flag.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")

	mqFlags := mqtt.MustFlags(flag.String, flag.Bool)
	flag.Parse()

	cfg := def
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Serial.Device = *serialDevice
		case "speed":
			cfg.Serial.Baud = *baudFlag
		case "parity":
			cfg.Serial.Parity = *parity
		case "topic":
			cfg.Device.Topic = *topicName
		case "name":
			cfg.Device.Name = *name
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	logrus.SetLevel(cfg.Level())

	ctx := context.Background()
	mq, err := mqtt.New(ctx, mqFlags())
	if err != nil {
		logrus.Fatalf("connecting to mqtt: %v", err)
	}

	// Spawn a goroutine to detect MQTT errors and handle reconnect
	go func() {
		for {
			ok, err := mq.Start()
			if err != nil {
				logrus.WithError(err).Error("MQTT error")
			}
			if !ok {
				os.Exit(1)
			}
			time.Sleep(3 * time.Second)
			logrus.Info("MQTT: reconnecting")
		}
	}()

	pub := &publisher{
		cfg: cfg.Device,
		newDevice: func(info *device.Info) (client.Device, error) {
			return client.NewDevice(info, mq)
		},
		log: logrus.StandardLogger(),
	}

	s, err := serial.OpenPort(serialConfig(cfg.Serial))
	if err != nil {
		logrus.Fatalf("error opening %s: %v", cfg.Serial.Device, err)
	}

	r := sml.NewReader(s)
	for {
		// Main loop, keep reading files until serial closes or program is terminated
		fr, err := r.ReadFile()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logrus.Info("EOF from serial device, exiting")
				return
			}
			logrus.Fatalf("error while reading SML file: %v", err)
		}

		reading, err := sml.Unmarshal(fr,
			sml.WithLogger(logrus.StandardLogger()),
			sml.WithEntryHandler(pub.observe),
		)
		if err != nil {
			logrus.WithError(err).WithField("code", sml.Code(err)).Warnf("error decoding SML file, data: %X", fr)
			continue
		}

		if err := pub.push(reading); err != nil {
			logrus.Fatal(err)
		}
	}
}

func serialConfig(c config.SerialConfig) *serial.Config {
	cfg := &serial.Config{
		Name:   c.Device,
		Baud:   c.Baud,
		Parity: serial.ParityNone,
		Size:   8,
	}
	switch c.Parity {
	case config.ParityEven:
		cfg.Parity = serial.ParityEven
	case config.ParityOdd:
		cfg.Parity = serial.ParityOdd
	}
	return cfg
}
