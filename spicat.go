package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"lautenbacher.net/spicat/config"
	"lautenbacher.net/spicat/format"
	"lautenbacher.net/spicat/hardware"
	"lautenbacher.net/spicat/logging"
	"lautenbacher.net/spicat/transaction"
)

const longHelp = `Perform full-duplex SPI transactions from the command line.

The transmit payload is read in full from the input (standard input by
default), sent to the device, and the bytes clocked back are written to
the output (standard output by default).

  echo -n 'Hello world!' | spicat /dev/spidev1.0 --speed 10000000

The output format depends on whether output is going to a terminal. If it
is, output is printed in hexadecimal by default; otherwise the raw bytes
are written. This can be overridden with --format.

The transaction can be repeated with --repeat, to stress-test an SPI bus
or device. A mid-loop failure halts the run; repeats are not a resilience
mechanism.

--pre-delay inserts a wait after asserting the chip select, before the
data starts moving, to give the device time to react. The wait happens in
the kernel with the chip select held asserted, and may overshoot the
requested value by a few microseconds.`

type flagValues struct {
	in         string
	out        string
	speed      uint32
	repeat     int
	formatName string
	mode       int
	chipSelect string
	bits       uint8
	preDelay   uint16
	configFile string
	verbose    bool
	logFile    string
}

func registerFlags(flags *pflag.FlagSet, v *flagValues) {
	flags.StringVarP(&v.in, "in", "i", "-", "read input from a file, or - for standard input")
	flags.StringVarP(&v.out, "out", "o", "-", "write output to a file, or - for standard output")
	flags.Uint32VarP(&v.speed, "speed", "s", 1000000, "speed in Hz for the SPI transaction")
	flags.IntVarP(&v.repeat, "repeat", "r", 1, "repeat the transaction COUNT times")
	flags.StringVarP(&v.formatName, "format", "f", "", "print the response as raw, hex[adecimal] or dec[imal]")
	flags.IntVar(&v.mode, "mode", 0, "SPI mode to use: 0, 1, 2 or 3")
	flags.StringVar(&v.chipSelect, "chip-select", "active-low", "chip select mode: active-low, active-high or disabled")
	flags.Uint8Var(&v.bits, "bits", 8, "bits per word for the SPI transaction")
	flags.Uint16Var(&v.preDelay, "pre-delay", 0, "microseconds to wait after asserting the chip select, before sending data")
	flags.StringVarP(&v.configFile, "config", "c", "", "YAML file with default bus parameters")
	flags.BoolVarP(&v.verbose, "verbose", "v", false, "log what is happening to stderr")
	flags.StringVar(&v.logFile, "log-file", "", "append a copy of the log to this file")
}

// options merges the defaults file (when given) with the flag values. A
// flag set on the command line always wins over the file.
func (v flagValues) options(flags *pflag.FlagSet, device string) (config.Options, error) {
	opts := config.Options{
		Device:  device,
		In:      v.in,
		Out:     v.out,
		SpeedHz: v.speed,
		Repeat:  v.repeat,
		Bits:    v.bits,
		Verbose: v.verbose,
		LogFile: v.logFile,
	}

	var defaults *config.Defaults
	if v.configFile != "" {
		d, err := config.ReadDefaults(v.configFile)
		if err != nil {
			return config.Options{}, err
		}
		defaults = d
	}

	if defaults != nil && defaults.SpeedHz != 0 && !flags.Changed("speed") {
		opts.SpeedHz = defaults.SpeedHz
	}
	if defaults != nil && defaults.Bits != 0 && !flags.Changed("bits") {
		opts.Bits = defaults.Bits
	}

	modeVal := v.mode
	if defaults != nil && defaults.Mode != nil && !flags.Changed("mode") {
		modeVal = *defaults.Mode
	}
	mode, err := config.ParseMode(modeVal)
	if err != nil {
		return config.Options{}, err
	}
	opts.Mode = mode

	csName := v.chipSelect
	if defaults != nil && defaults.ChipSelect != "" && !flags.Changed("chip-select") {
		csName = defaults.ChipSelect
	}
	cs, err := hardware.ParseChipSelect(csName)
	if err != nil {
		return config.Options{}, err
	}
	opts.ChipSelect = cs

	formatName := v.formatName
	if formatName == "" && defaults != nil {
		formatName = defaults.Format
	}
	if formatName != "" {
		f, err := format.Parse(formatName)
		if err != nil {
			return config.Options{}, err
		}
		opts.Format = &f
	}

	if flags.Changed("pre-delay") {
		pd := v.preDelay
		opts.PreDelay = &pd
	}

	return opts, nil
}

func newRootCommand() *cobra.Command {
	var v flagValues
	cmd := &cobra.Command{
		Use:           "spicat SPIDEV",
		Short:         "Perform full-duplex SPI transactions",
		Long:          longHelp,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := v.options(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			if err := logging.Init(opts.Verbose, opts.LogFile); err != nil {
				return fmt.Errorf("failed to initialise logging: %w", err)
			}
			defer logging.Close()

			bus, err := hardware.Open(opts.Device)
			if err != nil {
				return err
			}
			defer bus.Close()

			in, closeIn, err := openInput(opts.In)
			if err != nil {
				return err
			}
			defer closeIn()

			out, interactive, closeOut, err := openOutput(opts.Out)
			if err != nil {
				return err
			}
			defer closeOut()

			return run(opts, bus, in, out, interactive)
		},
	}
	registerFlags(cmd.Flags(), &v)
	return cmd
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	return f, f.Close, nil
}

// openOutput also reports whether the destination is a terminal, probed
// once here so format resolution never happens again per iteration.
// Output files are truncated when they already exist.
func openOutput(path string) (io.Writer, bool, func() error, error) {
	if path == "-" {
		return os.Stdout, term.IsTerminal(int(os.Stdout.Fd())), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, false, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	// Probing the fd rather than assuming false keeps paths like /dev/tty
	// behaving the same as the standard stream.
	return f, term.IsTerminal(int(f.Fd())), f.Close, nil
}

// run drives one invocation: configure the bus, read the whole payload,
// build the transfer plan, resolve the output format and execute the
// transaction loop.
func run(opts config.Options, bus hardware.Bus, in io.Reader, out io.Writer, interactive bool) error {
	if err := bus.Configure(opts.BusConfig()); err != nil {
		return err
	}
	slog.Debug("bus configured",
		"speed_hz", opts.SpeedHz,
		"mode", uint8(opts.Mode),
		"chip_select", opts.ChipSelect.String(),
		"bits_per_word", opts.Bits)

	payload, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input message: %w", err)
	}

	plan := hardware.NewTransferPlan(payload, opts.SpeedHz, opts.PreDelay)
	f := format.Resolve(opts.Format, interactive)
	slog.Debug("starting transactions",
		"payload_bytes", len(payload),
		"segments", len(plan.Segments),
		"repeat", opts.Repeat,
		"format", f.String())

	return transaction.Run(bus, plan, opts.Repeat, func(rx []byte) error {
		return format.Write(out, rx, f)
	})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
