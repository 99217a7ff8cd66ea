package stream

import "github.com/danmuck/lwcp/internal/protocol/frame"

// Config controls how a Reader consumes its source.
type Config struct {
	ChunkSize int
	Limits    frame.Limits
}

func DefaultConfig() Config {
	return Config{
		ChunkSize: 4096,
		Limits:    frame.DefaultLimits(),
	}
}
