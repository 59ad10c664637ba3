// Package testutils provides deterministic generators and an in-memory harness for
// cmdshell tests and golden runs. Generated values keep their production format so
// recorded transcripts look like real sessions.
package testutils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// Thread-safe counter for deterministic ID generation
	idCounter uint64
	idMutex   sync.Mutex
)

// GenerateID returns a session id that is deterministic in test mode and a random
// UUID otherwise. Test mode ids look like 00000001-0000-4000-8000-000000000001.
func GenerateID(testMode bool) string {
	if testMode {
		return getDeterministicUUID()
	}
	return uuid.NewString()
}

// getDeterministicUUID keeps the UUID v4 layout: xxxxxxxx-xxxx-4xxx-8xxx-xxxxxxxxxxxx.
func getDeterministicUUID() string {
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter++
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", idCounter, idCounter)
}

// ResetTestCounters resets the deterministic id counter. Golden runs call it before
// each case so ids do not depend on case order.
func ResetTestCounters() {
	idMutex.Lock()
	defer idMutex.Unlock()
	idCounter = 0
}
