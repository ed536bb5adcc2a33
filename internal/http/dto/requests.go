package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type CreateContractRequest struct {
	TemplateType   string       `json:"template_type"`
	Title          string       `json:"title,omitempty"`
	Content        ContentInput `json:"content"`
	CounterpartyID string       `json:"counterparty_id,omitempty"`
}

// ContentInput is the flat content object sent by clients: template field
// values next to contractValue and paymentMethod. contractValue may arrive as
// a JSON number or a string; it is kept as text and parsed strictly later.
type ContentInput struct {
	Fields        map[string]string
	ContractValue string
	PaymentMethod string
}

func (in *ContentInput) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	in.Fields = make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := scalarText(v)
		if err != nil {
			return fmt.Errorf("content.%s: %w", k, err)
		}
		switch k {
		case "contractValue":
			in.ContractValue = s
		case "paymentMethod":
			in.PaymentMethod = s
		default:
			in.Fields[k] = s
		}
	}
	return nil
}

func scalarText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("must be a string or number")
}

type RespondContractRequest struct {
	Decision string `json:"decision"` // agree / reject
	Reason   string `json:"reason,omitempty"`
}

type RejectContractRequest struct {
	Reason string `json:"reason,omitempty"`
}

type PreviewContractRequest struct {
	TemplateID string            `json:"template_id"`
	Fields     map[string]string `json:"fields"`
	PartyA     string            `json:"party_a"`
	PartyB     string            `json:"party_b"`
}

type AssessPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	PaymentTiming string `json:"payment_timing"`
	ContractValue int64  `json:"contract_value"`
	Relationship  string `json:"relationship"` // new / existing
}

type EscrowStatusRequest struct {
	Status string `json:"status"` // completed / failed
}
