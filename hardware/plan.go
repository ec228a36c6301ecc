package hardware

// Segment is one physical transfer unit within a transaction. All segments
// of a plan execute as a single atomic message, so the chip select line
// stays under kernel control across segment boundaries. SelectChange says
// whether the line is released when the segment ends.
type Segment struct {
	TX           []byte
	RX           []byte
	SpeedHz      uint32
	SelectChange bool
	DelayUsecs   uint16
}

// TransferPlan is the ordered list of segments making up one transaction.
// It is built once per invocation and immutable afterwards.
type TransferPlan struct {
	Segments []Segment
}

// NewTransferPlan builds the plan for one transaction. Without a pre-delay
// this is a single full-duplex segment carrying the whole payload. With a
// pre-delay it is a leading zero-length segment that waits in the kernel
// while keeping the chip select asserted, followed by the payload segment.
// Splitting into two independent transactions would toggle the chip select
// across the wait and defeat the point of the delay.
//
// An empty payload still yields a plan that executes, so a pre-delay-only
// pulse of the select line remains possible.
func NewTransferPlan(payload []byte, speedHz uint32, preDelay *uint16) TransferPlan {
	data := Segment{
		TX:           payload,
		RX:           make([]byte, len(payload)),
		SpeedHz:      speedHz,
		SelectChange: true,
	}
	if preDelay == nil {
		return TransferPlan{Segments: []Segment{data}}
	}
	wait := Segment{
		SpeedHz:      speedHz,
		SelectChange: false,
		DelayUsecs:   *preDelay,
	}
	return TransferPlan{Segments: []Segment{wait, data}}
}

// Capture returns the buffer the payload segment receives into. Every
// transfer of the plan overwrites it in full, so callers must not hold on
// to it across iterations.
func (p TransferPlan) Capture() []byte {
	return p.Segments[len(p.Segments)-1].RX
}
