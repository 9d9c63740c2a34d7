package equeue

import "sync"

// queueConfig holds the resolved configuration for Create.
type queueConfig struct {
	maxEvents int
	mutex     Mutex
	semaphore Semaphore
	ticker    Ticker
	logger    Logger
	metrics   *Metrics
}

// Option configures a Queue at Create time.
type Option interface {
	apply(*queueConfig) error
}

type optionFunc func(*queueConfig) error

func (f optionFunc) apply(cfg *queueConfig) error { return f(cfg) }

// WithMaxEvents sets the fixed capacity of the queue's event header table,
// i.e. the maximum number of chunks that may be simultaneously allocated
// regardless of how much of the byte buffer they use. If unset, Create
// derives a capacity from the buffer size assuming a conservative minimum
// event size.
func WithMaxEvents(n int) Option {
	return optionFunc(func(cfg *queueConfig) error {
		cfg.maxEvents = n
		return nil
	})
}

// WithMutex overrides the default sync.Mutex-backed locking collaborator.
func WithMutex(m Mutex) Option {
	return optionFunc(func(cfg *queueConfig) error {
		cfg.mutex = m
		return nil
	})
}

// WithSemaphore overrides the default portable channel-based Semaphore,
// e.g. with NewEventfdSemaphore on Linux.
func WithSemaphore(s Semaphore) Option {
	return optionFunc(func(cfg *queueConfig) error {
		cfg.semaphore = s
		return nil
	})
}

// WithTicker overrides the default monotonic millisecond Ticker.
func WithTicker(t Ticker) Option {
	return optionFunc(func(cfg *queueConfig) error {
		cfg.ticker = t
		return nil
	})
}

// WithLogger attaches a Logger; the default is a NoOpLogger.
func WithLogger(l Logger) Option {
	return optionFunc(func(cfg *queueConfig) error {
		cfg.logger = l
		return nil
	})
}

// WithMetrics enables dispatch latency and queue depth metrics collection,
// retrievable afterward via Queue.Metrics.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(cfg *queueConfig) error {
		if enabled {
			cfg.metrics = newMetrics()
		} else {
			cfg.metrics = nil
		}
		return nil
	})
}

const defaultMinEventSize = 64

func resolveOptions(bufSize int, opts []Option) (*queueConfig, error) {
	cfg := &queueConfig{
		mutex:     &sync.Mutex{},
		semaphore: NewSemaphore(),
		ticker:    NewTicker(),
		logger:    NoOpLogger{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.maxEvents <= 0 {
		cfg.maxEvents = bufSize / defaultMinEventSize
		if cfg.maxEvents < 1 {
			cfg.maxEvents = 1
		}
	}
	// EventID packs the chunk index into the high bits above
	// generationBits; an index table bigger than that cannot be addressed
	// by a stable identifier, so clamp rather than silently wrap.
	if maxAddressable := 1<<(32-generationBits) - 1; cfg.maxEvents > maxAddressable {
		cfg.maxEvents = maxAddressable
	}
	return cfg, nil
}
