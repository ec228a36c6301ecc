package hardware

// SPI is the transfer surface of an opened, configured bus handle. The
// transaction runner only needs this much, so tests can swap in mocks.
type SPI interface {
	Transfer(plan TransferPlan) error
}

// Bus is a full bus handle: it must be configured once before it accepts
// transfers.
type Bus interface {
	SPI
	Configure(cfg BusConfig) error
}
