package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReference builds a unique ledger reference for a transaction.
// Format: TAP-<nanos%1e6><3 random digits><userID>.
func GenerateReference(userID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nanoPart := time.Now().UnixNano() % 1000000
	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("TAP-%06d%03d%d", nanoPart, randPart, userID)
}
