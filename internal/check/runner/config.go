package runner

import "runtime"

type Config struct {
	// Workers bounds the number of queries evaluated at once.
	// Zero or less means one worker per available CPU.
	Workers int
}

// DefaultWorkers is the hardware parallelism visible to the Go runtime,
// never less than one.
func DefaultWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

func DefaultConfig() Config {
	return Config{Workers: DefaultWorkers()}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers()
}
