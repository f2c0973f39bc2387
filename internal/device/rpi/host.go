package rpi

import (
	"fmt"
	"sync"

	"periph.io/x/host/v3"
)

//nolint:gochecknoglobals // periph drivers are process-wide.
var (
	initOnce sync.Once
	errInit  error
)

// Init loads the periph host drivers once per process.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			errInit = fmt.Errorf("init periph host: %w", err)
		}
	})

	return errInit
}
