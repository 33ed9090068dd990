package moo

import "strings"

// Family selects the register set and bus-cycle encoding of a MOO file.
// It is derived once from the CPU name in the file header and applied
// uniformly to every test in the file. Unrecognized CPU names fall back to
// the classic 8086 tables instead of failing.
type Family int

const (
	Family8086 Family = iota // 8088/8086, V20/V30, 80186/80188
	Family80286
	Family80386
)

func (f Family) String() string {
	switch f {
	case Family80286:
		return "80286"
	case Family80386:
		return "80386"
	default:
		return "8086"
	}
}

// familyFor maps a CPU name from the file header to its family.
// Matching is by substring, so "386E", "C286" and "V20" resolve as expected.
func familyFor(cpuName string) Family {
	switch {
	case strings.Contains(cpuName, "386"):
		return Family80386
	case strings.Contains(cpuName, "286"):
		return Family80286
	default:
		return Family8086
	}
}

// registerNames returns the fixed register order of the family. Register
// values in a REGS/RG32 chunk are stored in this order, gated by the
// presence bitmask. Only the 386 family uses the 32-bit register set; the
// 80286 shares the classic 16-bit order.
func (f Family) registerNames() []string {
	if f == Family80386 {
		return regOrder386[:]
	}
	return regOrder[:]
}

// registerWidth returns the byte width of the presence bitmask and of each
// register value.
func (f Family) registerWidth() int {
	if f == Family80386 {
		return 4
	}
	return 2
}

var regOrder = [...]string{
	"ax", "bx", "cx", "dx", "cs", "ss", "ds", "es",
	"sp", "bp", "si", "di", "ip", "flags",
}

var regOrder386 = [...]string{
	"cr0", "cr3", "eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp",
	"cs", "ds", "es", "fs", "gs", "ss", "eip", "eflags", "dr6", "dr7",
}

// segmentNames maps the segment index of a classic bus cycle. Indexes
// outside the table decode to "--".
var segmentNames = [...]string{"ES", "SS", "CS", "DS", "--"}

// eaSegmentNames maps the 3-bit segment index of an EA32 chunk. Values 6
// and 7 are not valid segment registers and map to a sentinel.
var eaSegmentNames = [8]string{"CS", "SS", "DS", "ES", "FS", "GS", "-BAD-", "-BAD-"}

var busStatusNames = [8]string{"INTA", "IOR", "IOW", "MEMR", "MEMW", "HALT", "CODE", "PASV"}

var busStatus286Names = [16]string{
	"IRQA", "PASV", "PASV", "PASV",
	"HALT", "MEMR", "MEMW", "PASV",
	"PASV", "IOR", "IOW", "PASV",
	"PASV", "CODE", "PASV", "PASV",
}

var busStatus386Names = [8]string{"INTA", "PASV", "IOR", "IOW", "CODE", "HALT", "MEMR", "MEMW"}

var tStateNames = [...]string{"Ti", "T1", "T2", "T3", "T4"}

var tState286Names = [...]string{"Ti", "Ts", "Tc"}

var tState386Names = [...]string{"Ti", "T1", "T2"}

var queueOpNames = [...]string{"-", "F", "E", "S"}

// lookupName indexes a status table, falling back to def for codes outside
// the table. Every table lookup in the decoder is total.
func lookupName(table []string, index int, def string) string {
	if index < 0 || index >= len(table) {
		return def
	}
	return table[index]
}
