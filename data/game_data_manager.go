package data

import (
	"fmt"
	"sort"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
)

// GameDataManager は技・武器・パッシブ・クラスチェンジのすべての静的定義を保持します。
// 読み込み後は読み取り専用として扱います。
type GameDataManager struct {
	attacks    map[string]*core.AttackDefinition
	weapons    map[string]*core.WeaponDefinition
	passives   map[core.PassiveID]*core.PassiveDefinition
	promotions map[string]*core.PromotionDefinition
}

// NewGameDataManager は空の GameDataManager を作成します。
func NewGameDataManager() *GameDataManager {
	return &GameDataManager{
		attacks:    make(map[string]*core.AttackDefinition),
		weapons:    make(map[string]*core.WeaponDefinition),
		passives:   make(map[core.PassiveID]*core.PassiveDefinition),
		promotions: make(map[string]*core.PromotionDefinition),
	}
}

// AddAttackDefinition は技定義を追加します。
func (gdm *GameDataManager) AddAttackDefinition(ad *core.AttackDefinition) error {
	if ad == nil {
		return fmt.Errorf("nilのAttackDefinitionを追加できません")
	}
	if _, exists := gdm.attacks[ad.ID]; exists {
		return fmt.Errorf("ID %s のAttackDefinitionは既に存在します", ad.ID)
	}
	gdm.attacks[ad.ID] = ad
	return nil
}

// AddWeaponDefinition は武器定義を追加します。
func (gdm *GameDataManager) AddWeaponDefinition(wd *core.WeaponDefinition) error {
	if wd == nil {
		return fmt.Errorf("nilのWeaponDefinitionを追加できません")
	}
	if _, exists := gdm.weapons[wd.ID]; exists {
		return fmt.Errorf("ID %s のWeaponDefinitionは既に存在します", wd.ID)
	}
	gdm.weapons[wd.ID] = wd
	return nil
}

// AddPassiveDefinition はパッシブ定義を追加します。
func (gdm *GameDataManager) AddPassiveDefinition(pd *core.PassiveDefinition) error {
	if pd == nil {
		return fmt.Errorf("nilのPassiveDefinitionを追加できません")
	}
	if _, exists := gdm.passives[pd.ID]; exists {
		return fmt.Errorf("ID %s のPassiveDefinitionは既に存在します", pd.ID)
	}
	gdm.passives[pd.ID] = pd
	return nil
}

// AddPromotionDefinition はクラスチェンジ定義を追加します。
func (gdm *GameDataManager) AddPromotionDefinition(pd *core.PromotionDefinition) error {
	if pd == nil {
		return fmt.Errorf("nilのPromotionDefinitionを追加できません")
	}
	if _, exists := gdm.promotions[pd.ID]; exists {
		return fmt.Errorf("ID %s のPromotionDefinitionは既に存在します", pd.ID)
	}
	gdm.promotions[pd.ID] = pd
	return nil
}

// Attack はIDによって技定義を取得します。
func (gdm *GameDataManager) Attack(id string) (*core.AttackDefinition, bool) {
	ad, found := gdm.attacks[id]
	return ad, found
}

// Weapon はIDによって武器定義を取得します。
func (gdm *GameDataManager) Weapon(id string) (*core.WeaponDefinition, bool) {
	wd, found := gdm.weapons[id]
	return wd, found
}

// Passive はIDによってパッシブ定義を取得します。
func (gdm *GameDataManager) Passive(id core.PassiveID) (*core.PassiveDefinition, bool) {
	pd, found := gdm.passives[id]
	return pd, found
}

// PromotionsFor は指定クラスからのクラスチェンジ先をID順で返します。
func (gdm *GameDataManager) PromotionsFor(class string) []*core.PromotionDefinition {
	var defs []*core.PromotionDefinition
	for _, pd := range gdm.promotions {
		if pd.FromClass == class {
			defs = append(defs, pd)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// ShopStock は価格が設定された武器を価格順で返します。
func (gdm *GameDataManager) ShopStock() []*core.WeaponDefinition {
	var stock []*core.WeaponDefinition
	for _, wd := range gdm.weapons {
		if wd.Price > 0 {
			stock = append(stock, wd)
		}
	}
	sort.Slice(stock, func(i, j int) bool {
		if stock[i].Price != stock[j].Price {
			return stock[i].Price < stock[j].Price
		}
		return stock[i].ID < stock[j].ID
	})
	return stock
}
