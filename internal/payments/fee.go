package payments

import "fmt"

// FeeSchedule is the escrow service fee: a percentage of the contract value
// expressed in basis points, clamped into [Minimum, Maximum] yen.
type FeeSchedule struct {
	BasisPoints int   `json:"basis_points"`
	Minimum     int64 `json:"minimum"`
	Maximum     int64 `json:"maximum"`
}

// DefaultFeeSchedule is 3.6% with a 100 yen floor and 10,000 yen ceiling.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{BasisPoints: 360, Minimum: 100, Maximum: 10000}
}

func (s FeeSchedule) Validate() error {
	if s.BasisPoints < 0 || s.BasisPoints > 10000 {
		return fmt.Errorf("fee basis points out of range: %d", s.BasisPoints)
	}
	if s.Minimum < 0 || s.Maximum < s.Minimum {
		return fmt.Errorf("invalid fee clamp [%d, %d]", s.Minimum, s.Maximum)
	}
	return nil
}

// Percentage returns the schedule rate as a percentage, e.g. 3.6.
func (s FeeSchedule) Percentage() float64 {
	return float64(s.BasisPoints) / 100
}

type FeeResult struct {
	Fee        int64   `json:"fee"`
	Percentage float64 `json:"percentage"`
	NetAmount  int64   `json:"net_amount"`
}

// CalculateFee computes the escrow fee and the payout left after it.
// NetAmount goes negative when amount is below the minimum fee; callers decide
// what to do with that.
func (s FeeSchedule) CalculateFee(amount int64) FeeResult {
	// Split at 10000 so amount*bps cannot overflow for any int64 amount.
	bps := int64(s.BasisPoints)
	fee := amount/10000*bps + amount%10000*bps/10000
	if fee < s.Minimum {
		fee = s.Minimum
	}
	if fee > s.Maximum {
		fee = s.Maximum
	}
	return FeeResult{
		Fee:        fee,
		Percentage: s.Percentage(),
		NetAmount:  amount - fee,
	}
}
