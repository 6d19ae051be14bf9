package booking

import (
	"testing"

	"github.com/google/uuid"
)

func TestEnsureDetailIDs(t *testing.T) {
	existing := uuid.New()
	details := []GuestDetail{
		{Name: "Asha Rao", Age: 34, Gender: "female"},
		{ID: existing, Name: "Ravi Rao", Age: 36, Gender: "male"},
		{Name: "Meera Rao", Age: 8, Gender: "female"},
	}

	ensureDetailIDs(details)

	// The caller's slice must carry the assigned ids, since it is what the
	// create response returns.
	for i, g := range details {
		if g.ID == uuid.Nil {
			t.Errorf("detail %d still has a zero id", i)
		}
	}
	if details[1].ID != existing {
		t.Errorf("pre-set id was overwritten: %s", details[1].ID)
	}
	if details[0].ID == details[2].ID {
		t.Errorf("expected distinct ids, both are %s", details[0].ID)
	}
}
