package hardware

import "fmt"

// Mode is the SPI clock mode, the combination of clock polarity and phase
// (CPOL is the high bit, CPHA the low one).
type Mode uint8

const (
	Mode0 Mode = iota
	Mode1
	Mode2
	Mode3
)

// ChipSelect selects the polarity of the chip select line, or disables it
// entirely.
type ChipSelect uint8

const (
	ActiveLow ChipSelect = iota
	ActiveHigh
	Disabled
)

func ParseChipSelect(s string) (ChipSelect, error) {
	switch s {
	case "active-low":
		return ActiveLow, nil
	case "active-high":
		return ActiveHigh, nil
	case "disabled":
		return Disabled, nil
	}
	return 0, fmt.Errorf("invalid chip select mode %q (want active-low, active-high or disabled)", s)
}

func (c ChipSelect) String() string {
	switch c {
	case ActiveHigh:
		return "active-high"
	case Disabled:
		return "disabled"
	default:
		return "active-low"
	}
}

// flags returns the mode register bits for the chip select setting.
// Active-low is the hardware default and needs no bits set.
func (c ChipSelect) flags() uint32 {
	switch c {
	case ActiveHigh:
		return spiCSHigh
	case Disabled:
		return spiNoCS
	default:
		return 0
	}
}

// BusConfig describes how the bus is driven. All four settings are applied
// to the handle before any transfer takes place.
type BusConfig struct {
	SpeedHz     uint32
	Mode        Mode
	ChipSelect  ChipSelect
	BitsPerWord uint8
}
