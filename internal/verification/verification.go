package verification

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Level is a user's verification tier.
type Level string

const (
	LevelUnverified Level = "unverified" // store browsing only
	LevelBasic      Level = "basic"      // chat
	LevelVerified   Level = "verified"   // contracts up to 100,000 yen
	LevelPremium    Level = "premium"    // contracts up to 1,000,000 yen
)

// Feature names accepted by CanUseFeature.
const (
	FeatureViewStores        = "canViewStores"
	FeatureSendCollabRequest = "canSendCollabRequest"
	FeatureChat              = "canChat"
	FeatureCreateContract    = "canCreateContract"
)

// Check reasons.
const (
	ReasonPermitted             = "permitted"
	ReasonContractNotAllowed    = "contract_not_allowed"
	ReasonContractValueExceeded = "contract_value_exceeded"
)

type Permission struct {
	CanViewStores        bool  `json:"canViewStores"`
	CanSendCollabRequest bool  `json:"canSendCollabRequest"`
	CanChat              bool  `json:"canChat"`
	CanCreateContract    bool  `json:"canCreateContract"`
	MaxContractValue     int64 `json:"maxContractValue"`
}

// ContractCheck is the outcome of a contract permission check.
type ContractCheck struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// DefaultPermissions returns the level -> permission table.
func DefaultPermissions() map[Level]Permission {
	return map[Level]Permission{
		LevelUnverified: {
			CanViewStores: true,
		},
		LevelBasic: {
			CanViewStores:        true,
			CanSendCollabRequest: true,
			CanChat:              true,
		},
		LevelVerified: {
			CanViewStores:        true,
			CanSendCollabRequest: true,
			CanChat:              true,
			CanCreateContract:    true,
			MaxContractValue:     100000,
		},
		LevelPremium: {
			CanViewStores:        true,
			CanSendCollabRequest: true,
			CanChat:              true,
			CanCreateContract:    true,
			MaxContractValue:     1000000,
		},
	}
}

// ParseLevel maps a stored level string to a Level. Anything unrecognised is
// treated as unverified.
func ParseLevel(s string) Level {
	switch l := Level(s); l {
	case LevelUnverified, LevelBasic, LevelVerified, LevelPremium:
		return l
	}
	return LevelUnverified
}

// Gate answers permission questions from a fixed table.
type Gate struct {
	table   map[Level]Permission
	printer *message.Printer
}

func NewGate(table map[Level]Permission) *Gate {
	t := make(map[Level]Permission, len(table))
	for k, v := range table {
		t[k] = v
	}
	// Every level must resolve, even if the injected table is partial.
	for _, l := range []Level{LevelUnverified, LevelBasic, LevelVerified, LevelPremium} {
		if _, ok := t[l]; !ok {
			t[l] = Permission{}
		}
	}
	return &Gate{table: t, printer: message.NewPrinter(language.Japanese)}
}

func NewDefaultGate() *Gate {
	return NewGate(DefaultPermissions())
}

func (g *Gate) PermissionsFor(level Level) Permission {
	if p, ok := g.table[level]; ok {
		return p
	}
	return g.table[LevelUnverified]
}

func (g *Gate) CanUseFeature(level Level, feature string) bool {
	p := g.PermissionsFor(level)
	switch feature {
	case FeatureViewStores:
		return p.CanViewStores
	case FeatureSendCollabRequest:
		return p.CanSendCollabRequest
	case FeatureChat:
		return p.CanChat
	case FeatureCreateContract:
		return p.CanCreateContract
	}
	return false
}

// CheckContractPermission decides whether a user at level may create a
// contract worth contractValue yen. The limit is inclusive.
func (g *Gate) CheckContractPermission(level Level, contractValue int64) ContractCheck {
	p := g.PermissionsFor(level)

	if !p.CanCreateContract {
		return ContractCheck{
			Allowed: false,
			Reason:  ReasonContractNotAllowed,
			Message: "契約機能を利用するには本人確認が必要です。",
			Action:  "プロフィール画面から本人確認を完了してください。",
		}
	}

	if contractValue > p.MaxContractValue {
		return ContractCheck{
			Allowed: false,
			Reason:  ReasonContractValueExceeded,
			Message: g.printer.Sprintf("%d円の契約には追加の認証が必要です。", contractValue),
			Action:  "より詳細な本人確認を完了してください。",
		}
	}

	return ContractCheck{
		Allowed: true,
		Reason:  ReasonPermitted,
		Message: "契約を作成できます。",
	}
}
