package payments

// Relationship with the counterparty, as entered by the user.
const (
	RelationshipNew      = "new"
	RelationshipExisting = "existing"
)

const (
	riskFactorLargeCash       = "高額現金取引"
	riskFactorBarterValuation = "価値評価の主観性"
	riskFactorNewCredit       = "新規取引相手との信用取引"
	riskFactorNewNetPayment   = "新規相手への後払い"
)

type RiskAssessment struct {
	Level           string   `json:"risk_level"` // low / medium / high
	Score           int      `json:"risk_score"`
	Factors         []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`
}

// AssessRisk scores a payment arrangement. It only looks at the method, the
// timing and whether the counterparty is new.
func AssessRisk(method, timing string, contractValue int64, relationship string) RiskAssessment {
	score := 0
	factors := []string{}

	switch method {
	case MethodCash:
		if contractValue > 50000 {
			score += 2
			factors = append(factors, riskFactorLargeCash)
		}
	case MethodBarter:
		score++
		factors = append(factors, riskFactorBarterValuation)
	case MethodMonthlySettlement:
		if relationship == RelationshipNew {
			score += 3
			factors = append(factors, riskFactorNewCredit)
		}
	}

	if timing == TimingNetPayment && relationship == RelationshipNew {
		score += 2
		factors = append(factors, riskFactorNewNetPayment)
	}

	level := "high"
	switch {
	case score <= 1:
		level = "low"
	case score <= 3:
		level = "medium"
	}

	return RiskAssessment{
		Level:           level,
		Score:           score,
		Factors:         factors,
		Recommendations: riskRecommendations(score, factors),
	}
}

func riskRecommendations(score int, factors []string) []string {
	recs := []string{}
	if score >= 3 {
		recs = append(recs,
			"契約前に相手の信用度を十分確認してください",
			"保証金や手付金の設定を検討してください",
		)
	}
	for _, f := range factors {
		switch f {
		case riskFactorLargeCash:
			recs = append(recs, "銀行振込への変更を検討してください")
		case riskFactorNewCredit:
			recs = append(recs, "最初は前払いまたは引渡し時決済を推奨します")
		}
	}
	return recs
}
