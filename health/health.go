package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/ONSdigital/go-ns/log"
)

type healthResponse struct {
	Status string `json:"status"`
}

// Healthcheck is responsible for returning the health status to the user
func Healthcheck(w http.ResponseWriter, req *http.Request) {
	var healthStateInfo healthResponse

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	healthStateInfo.Status = "OK"

	healthStateJSON, err := json.Marshal(healthStateInfo)
	if err != nil {
		log.ErrorC("marshal json", err, log.Data{"struct": healthStateInfo})
		return
	}
	if _, err = w.Write(healthStateJSON); err != nil {
		log.ErrorC("writing json body", err, log.Data{"json": string(healthStateJSON)})
	}
}

var (
	mu            sync.Mutex
	elapsedMap    = make(map[string]int64)
	invocationMap = make(map[string]int64)
)

// RecordTime accumulates the time taken by an operation. Usage - as the first
// line in a handler: defer health.RecordTime(time.Now(), "feature")
func RecordTime(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	elapsedMap[name] += elapsed.Nanoseconds()
	invocationMap[name]++
	mu.Unlock()
}

// LogTimes writes the accumulated operation timings to the log and resets
// the counters.
func LogTimes() {
	mu.Lock()
	defer mu.Unlock()

	names := make([]string, 0, len(invocationMap))
	for name := range invocationMap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Info("operation timing", log.Data{
			"operation":   name,
			"millis":      elapsedMap[name] / int64(time.Millisecond),
			"invocations": invocationMap[name],
		})
	}
	elapsedMap = make(map[string]int64)
	invocationMap = make(map[string]int64)
}
