package verification

import "testing"

func TestCheckContractPermission(t *testing.T) {
	g := NewDefaultGate()

	tests := []struct {
		level      Level
		value      int64
		wantAllow  bool
		wantReason string
	}{
		{LevelUnverified, 1000, false, ReasonContractNotAllowed},
		{LevelUnverified, 0, false, ReasonContractNotAllowed},
		{LevelBasic, 1000, false, ReasonContractNotAllowed},
		{LevelVerified, 0, true, ReasonPermitted},
		{LevelVerified, 100000, true, ReasonPermitted},
		{LevelVerified, 100001, false, ReasonContractValueExceeded},
		{LevelPremium, 1000000, true, ReasonPermitted},
		{LevelPremium, 1000001, false, ReasonContractValueExceeded},
		{Level("admin"), 1, false, ReasonContractNotAllowed},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := g.CheckContractPermission(tt.level, tt.value)
			if got.Allowed != tt.wantAllow || got.Reason != tt.wantReason {
				t.Errorf("CheckContractPermission(%s, %d) = {%v %s}, want {%v %s}",
					tt.level, tt.value, got.Allowed, got.Reason, tt.wantAllow, tt.wantReason)
			}
			if !got.Allowed && got.Action == "" {
				t.Error("denied check must carry an action hint")
			}
		})
	}
}

func TestValueExceededMessageIsGrouped(t *testing.T) {
	got := NewDefaultGate().CheckContractPermission(LevelVerified, 150000)
	want := "150,000円の契約には追加の認証が必要です。"
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}

func TestPermissionsForIsTotal(t *testing.T) {
	g := NewGate(map[Level]Permission{LevelPremium: {CanCreateContract: true, MaxContractValue: 5}})
	for _, l := range []Level{LevelUnverified, LevelBasic, LevelVerified, LevelPremium, Level("")} {
		_ = g.PermissionsFor(l)
	}
	if g.PermissionsFor(LevelVerified).CanCreateContract {
		t.Error("missing table entry should default to no permissions")
	}
	if !g.PermissionsFor(LevelPremium).CanCreateContract {
		t.Error("injected table entry ignored")
	}
}

func TestCanUseFeature(t *testing.T) {
	g := NewDefaultGate()
	tests := []struct {
		level   Level
		feature string
		want    bool
	}{
		{LevelUnverified, FeatureViewStores, true},
		{LevelUnverified, FeatureChat, false},
		{LevelBasic, FeatureChat, true},
		{LevelBasic, FeatureSendCollabRequest, true},
		{LevelBasic, FeatureCreateContract, false},
		{LevelVerified, FeatureCreateContract, true},
		{LevelPremium, "canFly", false},
	}
	for _, tt := range tests {
		if got := g.CanUseFeature(tt.level, tt.feature); got != tt.want {
			t.Errorf("CanUseFeature(%s, %s) = %v, want %v", tt.level, tt.feature, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"unverified": LevelUnverified,
		"basic":      LevelBasic,
		"verified":   LevelVerified,
		"premium":    LevelPremium,
		"":           LevelUnverified,
		"VERIFIED":   LevelUnverified,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
