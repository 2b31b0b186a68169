// Package device provides common interfaces for emulated controllers.
package device

// ReportBuilder is an interface for device input states that can build input reports.
type ReportBuilder interface {
	// BuildReport encodes the input state into a byte slice as sent to the host.
	BuildReport() []byte
}
