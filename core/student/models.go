package student

import (
	"time"

	"github.com/trezcool/kazi/core"
)

// Student is an enrolled learner, keyed by their institutional ID (NIM).
// Students are created by roster upload and never deleted; re-uploading an
// existing NIM overwrites the name (last-write-wins).
type Student struct {
	NIM       string    `json:"nim"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// RosterEntry is one row of a bulk roster upload.
type RosterEntry struct {
	NIM  string `json:"nim"`
	Name string `json:"name"`
}

func (re *RosterEntry) Clean() {
	re.NIM = core.CleanString(re.NIM)
	re.Name = core.CleanString(re.Name)
}

// IsValid reports whether the entry survives the batch: both fields must be
// non-empty after trimming. Invalid entries are dropped, not fatal.
func (re RosterEntry) IsValid() bool {
	return re.NIM != "" && re.Name != ""
}
