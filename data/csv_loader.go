package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"
)

// AssetPaths は静的データの読み込み元です。空文字の項目は埋め込みデータを使います。
type AssetPaths struct {
	AttacksCSV    string
	WeaponsCSV    string
	PassivesCSV   string
	PromotionsCSV string
}

const (
	embeddedAttacks    = "assets/databases/attacks.csv"
	embeddedWeapons    = "assets/databases/weapons.csv"
	embeddedPassives   = "assets/databases/passives.csv"
	embeddedPromotions = "assets/databases/promotions.csv"
)

// LoadAllStaticGameData はすべての定義テーブルを読み込んだ GameDataManager を返します。
func LoadAllStaticGameData(paths AssetPaths) (*GameDataManager, error) {
	gdm := NewGameDataManager()
	loaders := []struct {
		path     string
		embedded string
		load     func(gdm *GameDataManager, r io.Reader, name string) error
	}{
		{paths.AttacksCSV, embeddedAttacks, loadAttacks},
		{paths.WeaponsCSV, embeddedWeapons, loadWeapons},
		{paths.PassivesCSV, embeddedPassives, loadPassives},
		{paths.PromotionsCSV, embeddedPromotions, loadPromotions},
	}
	for _, l := range loaders {
		if err := loadTable(gdm, l.path, l.embedded, l.load); err != nil {
			return nil, err
		}
	}
	return gdm, nil
}

func loadTable(gdm *GameDataManager, path, embedded string, load func(*GameDataManager, io.Reader, string) error) error {
	var (
		file io.ReadCloser
		err  error
		name = embedded
	)
	if path != "" {
		name = path
		file, err = os.Open(path)
	} else {
		file, err = assets.Open(embedded)
	}
	if err != nil {
		return fmt.Errorf("%s を開けませんでした: %w", name, err)
	}
	defer file.Close()
	return load(gdm, file, name)
}

// readRecords はヘッダーを読み飛ばし、各レコードに fn を適用します。
// 列数が足りない行や壊れた行は警告を出してスキップします。
func readRecords(r io.Reader, name string, minColumns int, fn func(record []string) error) error {
	log := logger.For("csv_loader").WithField("file", name)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("%s からヘッダーの読み込みに失敗しました: %w", name, err)
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.WithError(err).Warn("レコードの読み込み中にエラーが発生しました")
			continue
		}
		if len(record) < minColumns {
			log.WithField("record", record).Warn("列数が不足しているレコードをスキップします")
			continue
		}
		if err := fn(record); err != nil {
			log.WithError(err).Warn("定義の追加中にエラーが発生しました")
		}
	}
	return nil
}

func loadAttacks(gdm *GameDataManager, r io.Reader, name string) error {
	return readRecords(r, name, 16, func(rec []string) error {
		return gdm.AddAttackDefinition(&core.AttackDefinition{
			ID:               strings.TrimSpace(rec[0]),
			Name:             strings.TrimSpace(rec[1]),
			Power:            cellInt(rec[2], 0),
			Accuracy:         cellInt(rec[3], 100),
			Crit:             cellInt(rec[4], 0),
			Use:              core.UseType(strings.TrimSpace(rec[5])),
			Targeting:        core.TargetingStyle(strings.TrimSpace(rec[6])),
			Origin:           core.Origin(strings.TrimSpace(rec[7])),
			WispCost:         cellInt(rec[8], 0),
			TrueDamage:       cellBool(rec[9]),
			BypassInvincible: cellBool(rec[10]),
			Heals:            cellBool(rec[11]),
			MinRange:         cellInt(rec[12], 1),
			MaxRange:         cellInt(rec[13], 1),
			AreaRadius:       cellInt(rec[14], 0),
			SecondaryRange:   cellInt(rec[15], 0),
		})
	})
}

func loadWeapons(gdm *GameDataManager, r io.Reader, name string) error {
	return readRecords(r, name, 15, func(rec []string) error {
		return gdm.AddWeaponDefinition(&core.WeaponDefinition{
			ID:           strings.TrimSpace(rec[0]),
			Name:         strings.TrimSpace(rec[1]),
			Bonus:        parseStats(rec[2:10]),
			Movement:     cellInt(rec[10], 0),
			SpiritBurn:   cellFloat(rec[11], 0),
			HarmonyBonus: cellFloat(rec[12], 0),
			Price:        cellInt(rec[13], 0),
			Attacks:      cellList(rec[14]),
		})
	})
}

func loadPassives(gdm *GameDataManager, r io.Reader, name string) error {
	return readRecords(r, name, 3, func(rec []string) error {
		return gdm.AddPassiveDefinition(&core.PassiveDefinition{
			ID:          core.PassiveID(strings.TrimSpace(rec[0])),
			Name:        strings.TrimSpace(rec[1]),
			Description: strings.TrimSpace(rec[2]),
		})
	})
}

func loadPromotions(gdm *GameDataManager, r io.Reader, name string) error {
	return readRecords(r, name, 12, func(rec []string) error {
		return gdm.AddPromotionDefinition(&core.PromotionDefinition{
			ID:        strings.TrimSpace(rec[0]),
			FromClass: strings.TrimSpace(rec[1]),
			Name:      strings.TrimSpace(rec[2]),
			Bonus:     parseStats(rec[3:11]),
			Movement:  cellInt(rec[11], 0),
		})
	})
}

// parseStats は attack,defense,magic,resistance,wit,weight,max_hp,max_wisp の8列を読みます。
func parseStats(cols []string) core.Stats {
	return core.Stats{
		Attack:     cellInt(cols[0], 0),
		Defense:    cellInt(cols[1], 0),
		Magic:      cellInt(cols[2], 0),
		Resistance: cellInt(cols[3], 0),
		Wit:        cellInt(cols[4], 0),
		Weight:     cellInt(cols[5], 0),
		MaxHP:      cellInt(cols[6], 0),
		MaxWisp:    cellInt(cols[7], 0),
	}
}
