// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for PCM sample encoders
package encode

// Encoder encodes PCM int32 samples to bytes
type Encoder interface {
	// Encode converts PCM samples to encoded audio data
	Encode(samples []int32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
