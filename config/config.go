package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lautenbacher.net/spicat/format"
	"lautenbacher.net/spicat/hardware"
)

// Options holds one invocation's parameters, already parsed and validated.
// The core never sees the command line.
type Options struct {
	Device     string
	In         string
	Out        string
	SpeedHz    uint32
	Repeat     int
	Format     *format.Format
	Mode       hardware.Mode
	ChipSelect hardware.ChipSelect
	Bits       uint8
	PreDelay   *uint16
	Verbose    bool
	LogFile    string
}

// BusConfig assembles the bus parameters of the invocation.
func (o Options) BusConfig() hardware.BusConfig {
	return hardware.BusConfig{
		SpeedHz:     o.SpeedHz,
		Mode:        o.Mode,
		ChipSelect:  o.ChipSelect,
		BitsPerWord: o.Bits,
	}
}

// Defaults is the optional YAML file seeding bus parameters before the
// command line flags override them. Zero values (or a missing Mode key)
// mean "not set here".
type Defaults struct {
	SpeedHz    uint32 `yaml:"SpeedHz"`
	Mode       *int   `yaml:"Mode"`
	ChipSelect string `yaml:"ChipSelect"`
	Bits       uint8  `yaml:"Bits"`
	Format     string `yaml:"Format"`
}

func ReadDefaults(path string) (*Defaults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	var d Defaults
	if err := yaml.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return &d, nil
}

// ParseMode validates the numeric clock mode from the command line or the
// defaults file.
func ParseMode(v int) (hardware.Mode, error) {
	if v < 0 || v > 3 {
		return 0, fmt.Errorf("invalid SPI mode %d (want 0, 1, 2 or 3)", v)
	}
	return hardware.Mode(v), nil
}
