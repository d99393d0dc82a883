package core

// AttackDefinition は技の静的定義です。attacks.csv から読み込まれ、読み取り専用で参照されます。
type AttackDefinition struct {
	ID               string
	Name             string
	Power            int
	Accuracy         int
	Crit             int
	Use              UseType
	Targeting        TargetingStyle
	Origin           Origin
	WispCost         int
	TrueDamage       bool
	BypassInvincible bool
	Heals            bool
	MinRange         int
	MaxRange         int
	AreaRadius       int
	SecondaryRange   int
}

// DealsDamage は補助技で威力0の場合に false を返します。
func (a *AttackDefinition) DealsDamage() bool {
	if a.Heals {
		return false
	}
	return !(a.Use == UseUtility && a.Power == 0)
}

// WeaponDefinition は武器の静的定義です。
type WeaponDefinition struct {
	ID           string
	Name         string
	Bonus        Stats
	Movement     int
	SpiritBurn   float64 // 0 の場合は特性なし
	HarmonyBonus float64 // 隣接味方1体あたりの倍率加算。0 の場合は特性なし
	Price        int
	Attacks      []string
}

// PassiveDefinition はパッシブ能力の静的定義です。
type PassiveDefinition struct {
	ID          PassiveID
	Name        string
	Description string
}

// PromotionDefinition はクラスチェンジ先の定義です。
type PromotionDefinition struct {
	ID        string
	FromClass string
	Name      string
	Bonus     Stats
	Movement  int
}
