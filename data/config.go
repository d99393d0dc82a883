package data

// Config は、ゲーム全体のコンフィグレーションを保持します。
// game_settings.json から直接デシリアライズされます。
type Config struct {
	Grid struct {
		TileSize int `json:"TileSize"`
		Width    int `json:"Width"`
		Height   int `json:"Height"`
	} `json:"Grid"`

	Balance BalanceConfig `json:"Balance"`

	// 演出用タイマーの初期値 (tick数) です。減算は毎フレームのシステムが行います。
	Timers struct {
		ShakeTicks     int `json:"ShakeTicks"`
		TintTicks      int `json:"TintTicks"`
		HPDrainTicks   int `json:"HPDrainTicks"`
		FadeOutTicks   int `json:"FadeOutTicks"`
		ExpFillTicks   int `json:"ExpFillTicks"`
		ExpShrinkTicks int `json:"ExpShrinkTicks"`
		LungeTicks     int `json:"LungeTicks"`
	} `json:"Timers"`

	UI struct {
		Screen struct {
			Width  int `json:"Width"`
			Height int `json:"Height"`
		} `json:"Screen"`
	} `json:"UI"`
}

// BalanceConfig は戦闘計算式の定数です。
type BalanceConfig struct {
	TypeAdvantage         float64 `json:"TypeAdvantage"`
	TypeDisadvantage      float64 `json:"TypeDisadvantage"`
	CriticalMultiplier    float64 `json:"CriticalMultiplier"`
	LastStandMultiplier   float64 `json:"LastStandMultiplier"`
	PristineMultiplier    float64 `json:"PristineMultiplier"`
	ExpBase               int     `json:"ExpBase"`
	ExpDivisorKill        float64 `json:"ExpDivisorKill"`
	ExpDivisorHit         float64 `json:"ExpDivisorHit"`
	FastLearnerMultiplier float64 `json:"FastLearnerMultiplier"`
	ExpPerLevel           int     `json:"ExpPerLevel"`
	LevelCap              int     `json:"LevelCap"`
	ParalysisAuraRadius   int     `json:"ParalysisAuraRadius"`
	ParalysisTurns        int     `json:"ParalysisTurns"`
	StartingGold          int     `json:"StartingGold"`
}

// DefaultConfig は埋め込みの設定ファイルと同じ値を持つ設定を返します。
// テストや設定ファイルの一部欠落時の基準値として使います。
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Grid.TileSize = 32
	cfg.Grid.Width = 16
	cfg.Grid.Height = 12
	cfg.Balance = BalanceConfig{
		TypeAdvantage:         1.25,
		TypeDisadvantage:      0.75,
		CriticalMultiplier:    2,
		LastStandMultiplier:   2,
		PristineMultiplier:    0.5,
		ExpBase:               30,
		ExpDivisorKill:        10,
		ExpDivisorHit:         100,
		FastLearnerMultiplier: 1.5,
		ExpPerLevel:           100,
		LevelCap:              20,
		ParalysisAuraRadius:   2,
		ParalysisTurns:        1,
		StartingGold:          500,
	}
	cfg.Timers.ShakeTicks = 12
	cfg.Timers.TintTicks = 10
	cfg.Timers.HPDrainTicks = 30
	cfg.Timers.FadeOutTicks = 40
	cfg.Timers.ExpFillTicks = 45
	cfg.Timers.ExpShrinkTicks = 20
	cfg.Timers.LungeTicks = 8
	cfg.UI.Screen.Width = 512
	cfg.UI.Screen.Height = 448
	return cfg
}
