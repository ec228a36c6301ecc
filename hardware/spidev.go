package hardware

import (
	"fmt"
	"unsafe"
)

// Request numbers from <linux/spi/spidev.h>. golang.org/x/sys/unix does
// not export them, so they are spelled out here.
const (
	spiIOCWrMode        = 0x40016b01
	spiIOCWrBitsPerWord = 0x40016b03
	spiIOCWrMaxSpeedHz  = 0x40046b04
	spiIOCWrMode32      = 0x40046b05

	spiCSHigh = 0x04
	spiNoCS   = 0x40

	sizeofIocTransfer = 32
)

// spiIOCMessage computes SPI_IOC_MESSAGE(n): a write ioctl carrying n
// packed spi_ioc_transfer structs.
func spiIOCMessage(n int) uintptr {
	return 0x40006b00 | ((uintptr(n)*sizeofIocTransfer)&0x3fff)<<16
}

// iocTransfer mirrors struct spi_ioc_transfer. The buffer pointers are
// 64 bit on every platform.
type iocTransfer struct {
	txBuf          uint64
	rxBuf          uint64
	length         uint32
	speedHz        uint32
	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNBits        uint8
	rxNBits        uint8
	wordDelayUsecs uint8
	pad            uint8
}

// encodeSegments translates a plan into the kernel's transfer structs.
// The kernel inverts the meaning of cs_change on the last transfer of a
// message: set there, it keeps the chip select asserted after the message
// instead of releasing it between transfers.
func encodeSegments(segs []Segment) ([]iocTransfer, error) {
	xfers := make([]iocTransfer, len(segs))
	for i, s := range segs {
		if len(s.RX) != len(s.TX) {
			return nil, fmt.Errorf("segment %d: rx length %d does not match tx length %d", i, len(s.RX), len(s.TX))
		}
		t := iocTransfer{
			length:     uint32(len(s.TX)),
			speedHz:    s.SpeedHz,
			delayUsecs: s.DelayUsecs,
		}
		if len(s.TX) > 0 {
			t.txBuf = uint64(uintptr(unsafe.Pointer(&s.TX[0])))
			t.rxBuf = uint64(uintptr(unsafe.Pointer(&s.RX[0])))
		}
		if s.SelectChange != (i == len(segs)-1) {
			t.csChange = 1
		}
		xfers[i] = t
	}
	return xfers, nil
}

// ConfigError reports a bus setting the kernel refused. Settings are
// applied independently, so earlier ones may already be in effect; they
// are not rolled back.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to set %s to %s: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransferError reports a failed transaction. It is terminal for the
// whole invocation; remaining repeats are not attempted.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("SPI transaction failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
