package logging

import (
	"io"
	"log"
	"os"
)

var (
	Debug   *log.Logger
	Export  *log.Logger
	Enabled bool
)

func init() {
	// Only enable logging if VARIMAT_DEBUG environment variable is set
	if os.Getenv("VARIMAT_DEBUG") == "" {
		Debug = log.New(io.Discard, "", 0)
		Export = log.New(io.Discard, "", 0)
		Enabled = false
		return
	}

	Enabled = true

	// One debug.log shared by all loggers
	debugFile, err := os.OpenFile("debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		Export = log.New(os.Stderr, "[EXPORT] ", log.Ldate|log.Ltime)
		return
	}

	Debug = log.New(debugFile, "", log.Lmicroseconds)
	Export = log.New(debugFile, "[export] ", log.Lmicroseconds)
}
