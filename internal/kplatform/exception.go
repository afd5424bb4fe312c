package kplatform

// ExceptionKind enumerates the CPU exceptions the interrupt dispatch
// collaborator can report. Dispatch, the IDT, and the IST stack switch a
// real double fault needs are outside this module's boundary; this enum
// and the ExceptionHandler type exist only so a fatal exception has
// somewhere to be reported.
type ExceptionKind int

const (
	ExceptionPageFault ExceptionKind = iota
	ExceptionDoubleFault
	ExceptionGeneralProtectionFault
)

func (k ExceptionKind) String() string {
	switch k {
	case ExceptionPageFault:
		return "page fault"
	case ExceptionDoubleFault:
		return "double fault"
	case ExceptionGeneralProtectionFault:
		return "general protection fault"
	default:
		return "unknown exception"
	}
}

// ExceptionHandler is the shape of a handler invoked when a CPU exception
// fires. No handler table is installed in this module: SimPlatform's
// ReportException records and logs the exception and does not halt.
type ExceptionHandler func(kind ExceptionKind, errorCode uint64)
