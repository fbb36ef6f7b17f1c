// This file contains the decoder configuration.

package dem

// Config holds decoder configuration.
type Config struct {
	// KeepRawEvents retains the normalized event stream and soft-failure
	// diagnostics on the returned MatchReport. Off by default.
	KeepRawEvents bool

	// StrictProtocol, when true (the default), makes decoding of a demo
	// whose demo_protocol/network_protocol pair is outside the fully
	// supported set fail fast with UnsupportedProtocol. When false, the
	// decoder attempts a best-effort decode anyway.
	StrictProtocol bool

	_ struct{} // To prevent unkeyed literals
}

// DefaultConfig is the configuration used by the package-level ParseFile.
var DefaultConfig = Config{StrictProtocol: true}
