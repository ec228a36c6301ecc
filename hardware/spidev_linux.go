//go:build linux

package hardware

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

var errNotConfigured = errors.New("transfer attempted before configuration")

// Device is an exclusively owned spidev handle. It accepts transfer plans
// only after Configure has succeeded.
type Device struct {
	file       *os.File
	configured bool
}

// Open acquires the spidev character device at path, usually named
// /dev/spidev<bus>.<chip>.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open spidev %s: %w", path, err)
	}
	return &Device{file: f}, nil
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Configure applies cfg one setting at a time: bits per word, max speed,
// clock mode, then the chip select bits on top of the mode register. A
// refused setting leaves the handle partially configured; the returned
// ConfigError names the field and value so the caller can report it.
func (d *Device) Configure(cfg BusConfig) error {
	bits := cfg.BitsPerWord
	if err := d.ioctl(spiIOCWrBitsPerWord, unsafe.Pointer(&bits)); err != nil {
		return &ConfigError{Field: "bits per word", Value: fmt.Sprint(bits), Err: err}
	}
	speed := cfg.SpeedHz
	if err := d.ioctl(spiIOCWrMaxSpeedHz, unsafe.Pointer(&speed)); err != nil {
		return &ConfigError{Field: "max speed", Value: fmt.Sprintf("%d Hz", speed), Err: err}
	}
	mode := uint8(cfg.Mode)
	if err := d.ioctl(spiIOCWrMode, unsafe.Pointer(&mode)); err != nil {
		return &ConfigError{Field: "SPI mode", Value: fmt.Sprint(mode), Err: err}
	}
	mode32 := uint32(cfg.Mode) | cfg.ChipSelect.flags()
	if err := d.ioctl(spiIOCWrMode32, unsafe.Pointer(&mode32)); err != nil {
		return &ConfigError{Field: "chip select mode", Value: cfg.ChipSelect.String(), Err: err}
	}
	d.configured = true
	return nil
}

// Transfer executes every segment of plan as one atomic SPI_IOC_MESSAGE
// ioctl. The call blocks for the whole exchange, including any in-kernel
// delay a segment requests.
func (d *Device) Transfer(plan TransferPlan) error {
	if !d.configured {
		return &TransferError{Err: errNotConfigured}
	}
	xfers, err := encodeSegments(plan.Segments)
	if err != nil {
		return &TransferError{Err: err}
	}
	if err := d.ioctl(spiIOCMessage(len(xfers)), unsafe.Pointer(&xfers[0])); err != nil {
		return &TransferError{Err: err}
	}
	runtime.KeepAlive(plan.Segments)
	return nil
}

func (d *Device) Close() error {
	return d.file.Close()
}
