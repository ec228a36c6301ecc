package transaction

import (
	"fmt"
	"log/slog"

	"lautenbacher.net/spicat/hardware"
)

// Run executes plan against the bus handle repeat times, handing each
// iteration's capture to sink as soon as that transfer completes. Output
// streams per iteration, it is never buffered until the end. The capture
// slice is reused between iterations, so sink must not retain it.
//
// The first transfer or sink failure aborts the remaining iterations;
// output already flushed stays. There is no retry policy.
func Run(bus hardware.SPI, plan hardware.TransferPlan, repeat int, sink func(rx []byte) error) error {
	for i := 0; i < repeat; i++ {
		if err := bus.Transfer(plan); err != nil {
			return err
		}
		slog.Debug("transfer complete", "iteration", i+1, "bytes", len(plan.Capture()))
		if err := sink(plan.Capture()); err != nil {
			return fmt.Errorf("failed to write to output stream: %w", err)
		}
	}
	return nil
}
