package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestRecipientsSurviveJSON(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	e := Event{Type: EventContractAgreed, Payload: map[string]any{KeyContractValue: int64(50000)}}.
		WithRecipients(a, uuid.Nil, b)

	if got := e.Recipients(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("in-process Recipients() = %v", got)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if got := decoded.Recipients(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("decoded Recipients() = %v", got)
	}
	if decoded.Int(KeyContractValue) != 50000 {
		t.Errorf("Int() = %d, want 50000", decoded.Int(KeyContractValue))
	}
}

func TestMissingPayloadKeys(t *testing.T) {
	var e Event
	if e.String(KeyTitle) != "" || e.Int(KeyFee) != 0 || len(e.Recipients()) != 0 {
		t.Fatal("zero event should read as empty")
	}
}
