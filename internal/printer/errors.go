package printer

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrNoPrinterPaired is returned by Print when no address has been paired.
	ErrNoPrinterPaired = errors.New("no printer paired")
	// ErrPrinterBusy is returned by Print while another job is in flight.
	ErrPrinterBusy = errors.New("printer busy")
	// ErrConnectFailed matches every *ConnectError.
	ErrConnectFailed = errors.New("printer connect failed")
	// ErrTransmitFailed matches every *TransmitError.
	ErrTransmitFailed = errors.New("printer transmit failed")
	// ErrInvalidAddress is returned by Pair for an empty address.
	ErrInvalidAddress = errors.New("invalid printer address")
)

// ConnectError indicates the paired device could not be reached.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to printer %s: %v", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConnectFailed) hold.
func (e *ConnectError) Is(target error) bool { return target == ErrConnectFailed }

// TransmitError indicates the connection was opened but the payload was not
// delivered.
type TransmitError struct {
	Address string
	Written int
	Err     error
}

func (e *TransmitError) Error() string {
	return fmt.Sprintf("send to printer %s (%d bytes written): %v", e.Address, e.Written, e.Err)
}

func (e *TransmitError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransmitFailed) hold.
func (e *TransmitError) Is(target error) bool { return target == ErrTransmitFailed }

// UserMessage returns the end-user hint for a print failure, or an empty
// string when err is not a printer error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoPrinterPaired):
		return "pair a printer first"
	case errors.Is(err, ErrPrinterBusy):
		return "a print job is already running"
	case errors.Is(err, ErrConnectFailed):
		return "could not reach the paired device"
	case errors.Is(err, ErrTransmitFailed):
		return "message could not be delivered"
	case errors.Is(err, ErrInvalidAddress):
		return "printer address is required"
	default:
		return ""
	}
}
