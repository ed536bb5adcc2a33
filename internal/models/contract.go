package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Contract statuses
const (
	ContractStatusPending  = "pending"
	ContractStatusAgreed   = "agreed"
	ContractStatusRejected = "rejected"
)

// Valid state transitions: from -> []to
var ValidContractTransitions = map[string][]string{
	ContractStatusPending:  {ContractStatusAgreed, ContractStatusRejected},
	ContractStatusAgreed:   {},
	ContractStatusRejected: {},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidContractTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Contract struct {
	ID               uuid.UUID       `json:"id"`
	TemplateType     string          `json:"template_type"`
	Title            string          `json:"title"`
	Content          ContractContent `json:"content"`
	GeneratedContent string          `json:"generated_content"`
	Status           string          `json:"status"`
	CreatedBy        uuid.UUID       `json:"created_by"`
	AgreedBy         *uuid.UUID      `json:"agreed_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	AgreedAt         *time.Time      `json:"agreed_at,omitempty"`
}

// ContractContent is what the creator filled in. It is stored and served as a
// single flat object: the template's field keys next to contractValue and
// paymentMethod.
type ContractContent struct {
	Fields        map[string]string
	ContractValue int64
	PaymentMethod string
}

// Content keys that sit next to the template fields in the flat object.
// Template fields must not use them.
const (
	ContentKeyValue  = "contractValue"
	ContentKeyMethod = "paymentMethod"
)

func (c ContractContent) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+2)
	for k, v := range c.Fields {
		out[k] = v
	}
	out[ContentKeyValue] = c.ContractValue
	out[ContentKeyMethod] = c.PaymentMethod
	return json.Marshal(out)
}

func (c *ContractContent) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Fields = make(map[string]string, len(raw))
	for k, v := range raw {
		switch k {
		case ContentKeyValue:
			n, err := parseContentValue(v)
			if err != nil {
				return err
			}
			c.ContractValue = n
		case ContentKeyMethod:
			if err := json.Unmarshal(v, &c.PaymentMethod); err != nil {
				return fmt.Errorf("paymentMethod: %w", err)
			}
		default:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("field %s: %w", k, err)
			}
			c.Fields[k] = s
		}
	}
	return nil
}

// older rows may carry contractValue as a string
func parseContentValue(v json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("contractValue: %w", err)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("contractValue: %w", err)
	}
	return n, nil
}
