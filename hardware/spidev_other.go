//go:build !linux

package hardware

import "errors"

var errUnsupported = errors.New("spidev is not implemented on this platform")

// Device is a no-implementation stand-in on platforms without the Linux
// spidev module.
type Device struct{}

func Open(path string) (*Device, error) {
	return nil, errUnsupported
}

func (d *Device) Configure(cfg BusConfig) error {
	return errUnsupported
}

func (d *Device) Transfer(plan TransferPlan) error {
	return errUnsupported
}

func (d *Device) Close() error {
	return nil
}
