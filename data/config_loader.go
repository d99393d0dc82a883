package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/FranklyNathan/BrambleWars-sub002/logger"
)

//go:embed assets/configs/game_settings.json assets/databases/*.csv assets/texts/messages.json
var assets embed.FS

const defaultSettingsPath = "assets/configs/game_settings.json"

// LoadConfig は埋め込みの game_settings.json を読み込み、overridePath が指定されていれば
// その内容で上書きした設定を返します。
func LoadConfig(overridePath string) (*Config, error) {
	cfg := DefaultConfig()

	jsonFile, err := assets.ReadFile(defaultSettingsPath)
	if err != nil {
		return nil, fmt.Errorf("埋め込みの game_settings.json の読み込みに失敗しました: %w", err)
	}
	if err := json.Unmarshal(jsonFile, cfg); err != nil {
		return nil, fmt.Errorf("埋め込みの game_settings.json のデシリアライズに失敗しました: %w", err)
	}

	if overridePath == "" {
		return cfg, nil
	}

	override, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("%s の読み込みに失敗しました: %w", overridePath, err)
	}
	// 既存の値の上にデシリアライズするため、ファイルに無い項目は既定値のまま残ります。
	if err := json.Unmarshal(override, cfg); err != nil {
		return nil, fmt.Errorf("%s のデシリアライズに失敗しました: %w", overridePath, err)
	}
	logger.For("config").WithField("path", overridePath).Info("設定ファイルを上書き読み込みしました")
	return cfg, nil
}
