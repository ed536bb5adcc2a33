package models

import (
	"encoding/json"
	"testing"
)

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{ContractStatusPending, ContractStatusAgreed, true},
		{ContractStatusPending, ContractStatusRejected, true},

		// Terminal states
		{ContractStatusAgreed, ContractStatusRejected, false},
		{ContractStatusAgreed, ContractStatusPending, false},
		{ContractStatusRejected, ContractStatusAgreed, false},
		{ContractStatusRejected, ContractStatusPending, false},

		{ContractStatusPending, ContractStatusPending, false},
		{"nonexistent", ContractStatusAgreed, false},
		{ContractStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []string{ContractStatusAgreed, ContractStatusRejected} {
		transitions, ok := ValidContractTransitions[status]
		if !ok {
			t.Errorf("status %q missing from ValidContractTransitions map", status)
		}
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}

func TestContractContentJSONIsFlat(t *testing.T) {
	c := ContractContent{
		Fields:        map[string]string{"product": "米"},
		ContractValue: 50000,
		PaymentMethod: "shokulab_escrow",
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatal(err)
	}
	if flat["product"] != "米" || flat["paymentMethod"] != "shokulab_escrow" || flat["contractValue"] != float64(50000) {
		t.Fatalf("unexpected shape: %s", data)
	}

	var back ContractContent
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ContractValue != 50000 || back.Fields["product"] != "米" || len(back.Fields) != 1 {
		t.Fatalf("decoded = %+v", back)
	}
}

func TestContractContentAcceptsStringValue(t *testing.T) {
	var c ContractContent
	if err := json.Unmarshal([]byte(`{"contractValue":"12000","paymentMethod":"cash"}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.ContractValue != 12000 {
		t.Errorf("ContractValue = %d, want 12000", c.ContractValue)
	}
	if err := json.Unmarshal([]byte(`{"contractValue":"abc"}`), &c); err == nil {
		t.Error("expected error for non-numeric contractValue")
	}
}
