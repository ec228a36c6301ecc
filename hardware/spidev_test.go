package hardware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpiIOCMessage(t *testing.T) {
	// SPI_IOC_MESSAGE(1) and (2) as computed by the C macro.
	assert.Equal(t, uintptr(0x40206b00), spiIOCMessage(1))
	assert.Equal(t, uintptr(0x40406b00), spiIOCMessage(2))
}

func TestEncodeSegmentsSingle(t *testing.T) {
	tx := []byte{1, 2, 3}
	rx := make([]byte, 3)
	xfers, err := encodeSegments([]Segment{
		{TX: tx, RX: rx, SpeedHz: 1000000, SelectChange: true},
	})
	assert.NoError(t, err)
	assert.Len(t, xfers, 1)
	x := xfers[0]
	assert.Equal(t, uint32(3), x.length)
	assert.Equal(t, uint32(1000000), x.speedHz)
	assert.Equal(t, uint16(0), x.delayUsecs)
	assert.NotZero(t, x.txBuf)
	assert.NotZero(t, x.rxBuf)
	// Releasing the select at the end of the message is the kernel
	// default, so cs_change stays clear on the final transfer.
	assert.Equal(t, uint8(0), x.csChange)
}

func TestEncodeSegmentsPreDelay(t *testing.T) {
	tx := []byte{1, 2}
	rx := make([]byte, 2)
	xfers, err := encodeSegments([]Segment{
		{SpeedHz: 500000, SelectChange: false, DelayUsecs: 100},
		{TX: tx, RX: rx, SpeedHz: 500000, SelectChange: true},
	})
	assert.NoError(t, err)
	assert.Len(t, xfers, 2)

	wait := xfers[0]
	assert.Equal(t, uint32(0), wait.length)
	assert.Equal(t, uint64(0), wait.txBuf)
	assert.Equal(t, uint16(100), wait.delayUsecs)
	// cs_change clear between transfers keeps the select asserted
	// across the delay.
	assert.Equal(t, uint8(0), wait.csChange)

	data := xfers[1]
	assert.Equal(t, uint32(2), data.length)
	assert.Equal(t, uint8(0), data.csChange)
}

func TestEncodeSegmentsSelectInversion(t *testing.T) {
	// Keeping the select asserted after the message requires cs_change
	// set on the final transfer; releasing it mid-message requires
	// cs_change set on a non-final transfer.
	xfers, err := encodeSegments([]Segment{{SelectChange: false}})
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), xfers[0].csChange)

	xfers, err = encodeSegments([]Segment{
		{SelectChange: true},
		{SelectChange: true},
	})
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), xfers[0].csChange)
	assert.Equal(t, uint8(0), xfers[1].csChange)
}

func TestEncodeSegmentsLengthMismatch(t *testing.T) {
	_, err := encodeSegments([]Segment{
		{TX: []byte{1, 2}, RX: make([]byte, 1)},
	})
	if err == nil {
		t.Fatal("expected an error for mismatched rx/tx lengths")
	}
}

func TestConfigError(t *testing.T) {
	cause := errors.New("invalid argument")
	err := &ConfigError{Field: "bits per word", Value: "9", Err: cause}
	assert.Equal(t, "failed to set bits per word to 9: invalid argument", err.Error())
	assert.ErrorIs(t, err, cause)

	var ce *ConfigError
	assert.ErrorAs(t, error(err), &ce)
	assert.Equal(t, "bits per word", ce.Field)
}

func TestTransferError(t *testing.T) {
	cause := errors.New("input/output error")
	err := &TransferError{Err: cause}
	assert.Equal(t, "SPI transaction failed: input/output error", err.Error())
	assert.ErrorIs(t, err, cause)
}
