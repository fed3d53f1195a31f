package boot

import "time"

// EntryFunc is the application entry point. Its contract is diverging:
// control is handed over and never expected back.
type EntryFunc func()

// Materialize establishes the memory preconditions: every zero region of
// ram is zero-filled and every copy region is populated from rom. The two
// kinds touch disjoint memory and carry no ordering dependency on each
// other; both complete before Materialize returns.
func Materialize(ram []byte, rom []byte, layout Layout) {
	for _, r := range layout.Zero {
		dst := ram[r.Start:r.End]
		for i := range dst {
			dst[i] = 0
		}
	}
	for _, r := range layout.Copy {
		copy(ram[r.Start:r.End], rom[r.Src:r.Src+r.Len()])
	}
}

// Boot materializes the layout and transfers control to entry. It never
// returns: if entry returns despite its contract, Boot parks in the
// terminal idle spin.
func Boot(ram []byte, rom []byte, layout Layout, entry EntryFunc) {
	Materialize(ram, rom, layout)
	entry()
	Park()
}

// Park is the terminal idle spin: the explicit end state for control flow
// that has nowhere left to go. It never returns.
func Park() {
	for {
		time.Sleep(time.Second)
	}
}
