package result

import (
	"encoding/json"
	"time"
)

// Record holds the outcome of one capture attempt.
type Record struct {
	BSSID     string    `json:"bssid"`
	Channel   int       `json:"channel"`
	CapFile   string    `json:"cap_file,omitempty"`
	Outcome   string    `json:"outcome"` // captured, timed-out, cracked
	Key       string    `json:"key,omitempty"`
	Duration  Duration  `json:"duration,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Duration wraps time.Duration for JSON serialization.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Cracked reports whether a key was recovered for this record.
func (r *Record) Cracked() bool {
	return r.Key != ""
}
