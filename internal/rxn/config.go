package rxn

import "fmt"

// Config holds the engine constants of a run.
type Config struct {
	// HashSize is the number of reaction table buckets; a power of two.
	HashSize int `json:"hash_size" toml:"hash_size"`
	// MaxMatchingRxns caps how many reactions a bi- or trimolecular trigger returns.
	MaxMatchingRxns int `json:"max_matching_rxns" toml:"max_matching_rxns"`
}

// DefaultConfig returns the defaults used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		HashSize:        1024,
		MaxMatchingRxns: 64,
	}
}

// Validate checks that the configuration can drive a World.
func (c Config) Validate() error {
	err := &ValidationError{}
	if !isPowerOfTwo(c.HashSize) {
		err.Add(fmt.Sprintf("hash_size: %v: got %d", ErrInvalidHashSize, c.HashSize))
	}
	if c.MaxMatchingRxns < 1 {
		err.Add(fmt.Sprintf("max_matching_rxns: must be at least 1, got %d", c.MaxMatchingRxns))
	}
	if err.HasIssues() {
		return err
	}
	return nil
}
