package boot

// ZeroRegion describes a RAM range [Start, End) that must read as zero
// before any code uses it. End == Start is a legal empty region.
type ZeroRegion struct {
	Start uint `json:"start" yaml:"start"`
	End   uint `json:"end" yaml:"end"`
}

// Len returns the region length in bytes.
func (r ZeroRegion) Len() uint { return r.End - r.Start }

// CopyRegion describes a RAM range [Start, End) that must be populated
// byte-for-byte from the ROM image starting at Src. The source length is
// implied: exactly End-Start bytes are read.
type CopyRegion struct {
	Start uint `json:"start" yaml:"start"`
	End   uint `json:"end" yaml:"end"`
	Src   uint `json:"src" yaml:"src"`
}

// Len returns the region length in bytes.
func (r CopyRegion) Len() uint { return r.End - r.Start }

// Layout is the memory map handed to the trampoline. Region boundaries
// are resolved by the embedder (build-time data, configuration) and are
// trusted inputs.
type Layout struct {
	Zero []ZeroRegion `json:"zero" yaml:"zero"`
	Copy []CopyRegion `json:"copy" yaml:"copy"`
}
