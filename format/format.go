package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Format selects how captured bytes are rendered on the output stream.
type Format int

const (
	Raw Format = iota
	Hexadecimal
	Decimal
)

func Parse(s string) (Format, error) {
	switch s {
	case "raw":
		return Raw, nil
	case "hex", "hexadecimal":
		return Hexadecimal, nil
	case "dec", "decimal":
		return Decimal, nil
	}
	return 0, fmt.Errorf("invalid output format %q (want raw, hex or dec)", s)
}

func (f Format) String() string {
	switch f {
	case Hexadecimal:
		return "hex"
	case Decimal:
		return "dec"
	default:
		return "raw"
	}
}

// Resolve picks the effective format. An explicit choice always wins;
// otherwise interactive destinations get hex and everything else gets the
// raw bytes. Resolution happens once per invocation, before the
// transaction loop.
func Resolve(explicit *Format, interactive bool) Format {
	if explicit != nil {
		return *explicit
	}
	if interactive {
		return Hexadecimal
	}
	return Raw
}

// Write renders one iteration's capture to w. Raw is the bytes verbatim.
// Hex and decimal separate bytes with a single space and end with exactly
// one newline; an empty capture renders as just the newline. The rendering
// is built up front so a sink failure surfaces as a single error.
func Write(w io.Writer, rx []byte, f Format) error {
	if f == Raw {
		_, err := w.Write(rx)
		return err
	}
	var buf bytes.Buffer
	for i, b := range rx {
		if i != 0 {
			buf.WriteByte(' ')
		}
		if f == Hexadecimal {
			fmt.Fprintf(&buf, "%02X", b)
		} else {
			buf.WriteString(strconv.Itoa(int(b)))
		}
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
