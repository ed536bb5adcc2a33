package payments

// Payment method ids as stored in contract content.
const (
	MethodShokulabEscrow     = "shokulab_escrow"
	MethodCash               = "cash"
	MethodDirectBankTransfer = "direct_bank_transfer"
	MethodMonthlySettlement  = "monthly_settlement"
	MethodCOD                = "cod"
	MethodDigitalPayment     = "digital_payment"
	MethodBarter             = "barter"
)

// Payment timings.
const (
	TimingAdvance    = "advance"
	TimingCOD        = "cod_timing"
	TimingNetPayment = "net_payment"
)

type Method struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	HasPlatformFee bool     `json:"has_platform_fee"`
	SuitableFor    []string `json:"suitable_for"`
}

type Timing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RiskLevel   string `json:"risk_level"`
}

var methods = []Method{
	{
		ID:             MethodShokulabEscrow,
		Name:           "食ラボ安心決済",
		Description:    "クレジットカードで支払い、銀行振込で受け取り",
		HasPlatformFee: true,
		SuitableFor:    []string{"全ての取引（推奨）", "初回取引", "高額取引", "手軽に決済したい場合"},
	},
	{
		ID:          MethodCash,
		Name:        "現金決済",
		Description: "商品受け渡し時に現金で支払い",
		SuitableFor: []string{"小額取引", "単発取引", "信頼関係のある相手"},
	},
	{
		ID:          MethodDirectBankTransfer,
		Name:        "直接銀行振込",
		Description: "当事者間で直接銀行振込",
		SuitableFor: []string{"継続取引", "信頼できる相手", "手数料を節約したい場合"},
	},
	{
		ID:          MethodMonthlySettlement,
		Name:        "月末締め翌月払い",
		Description: "1ヶ月分をまとめて翌月に決済",
		SuitableFor: []string{"定期取引", "継続的な関係", "信頼できる相手"},
	},
	{
		ID:          MethodCOD,
		Name:        "代金引換",
		Description: "商品配送時に配送業者経由で決済",
		SuitableFor: []string{"配送取引", "初回取引", "中額取引"},
	},
	{
		ID:          MethodDigitalPayment,
		Name:        "デジタル決済",
		Description: "PayPay、LINE Pay等のデジタル決済",
		SuitableFor: []string{"小額〜中額取引", "若い経営者同士", "カジュアルな取引"},
	},
	{
		ID:          MethodBarter,
		Name:        "物々交換",
		Description: "商品やサービスの直接交換",
		SuitableFor: []string{"余剰在庫の交換", "季節商品", "特殊な関係"},
	},
}

var timings = []Timing{
	{ID: TimingAdvance, Name: "前払い", Description: "商品・サービス提供前に支払い", RiskLevel: "low_for_seller"},
	{ID: TimingCOD, Name: "引渡し時", Description: "商品・サービス提供と同時に支払い", RiskLevel: "balanced"},
	{ID: TimingNetPayment, Name: "後払い", Description: "商品・サービス提供後に支払い", RiskLevel: "low_for_buyer"},
}

// Methods returns a copy of the payment method catalogue in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Timings returns a copy of the payment timing options.
func Timings() []Timing {
	out := make([]Timing, len(timings))
	copy(out, timings)
	return out
}

func LookupMethod(id string) (Method, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

func IsValidMethod(id string) bool {
	_, ok := LookupMethod(id)
	return ok
}

// RecommendMethods ranks payment methods for a contract value. Escrow is always first.
func RecommendMethods(contractValue int64) []Method {
	ids := []string{MethodShokulabEscrow}
	switch {
	case contractValue <= 10000:
		ids = append(ids, MethodCash, MethodDigitalPayment)
	case contractValue <= 100000:
		ids = append(ids, MethodCOD, MethodDirectBankTransfer)
	default:
		ids = append(ids, MethodDirectBankTransfer, MethodMonthlySettlement)
	}

	out := make([]Method, 0, len(ids))
	for _, id := range ids {
		m, _ := LookupMethod(id)
		out = append(out, m)
	}
	return out
}
