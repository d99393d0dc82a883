package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/hajimehoshi/ebiten/v2"
)

// main関数がエントリーポイントです
func main() {
	configPath := flag.String("config", "", "game_settings.json を上書きするファイルのパス")
	attacksPath := flag.String("attacks", "", "attacks.csv を差し替えるファイルのパス")
	weaponsPath := flag.String("weapons", "", "weapons.csv を差し替えるファイルのパス")
	seed := flag.Int64("seed", 0, "乱数シード (0なら現在時刻)")
	flag.Parse()

	logger.Init()
	log := logger.For("main")

	if wd, err := os.Getwd(); err != nil {
		log.WithError(err).Warn("カレントワーキングディレクトリの取得に失敗しました")
	} else {
		log.WithField("wd", wd).Debug("カレントワーキングディレクトリ")
	}

	config, err := data.LoadConfig(*configPath)
	if err != nil {
		logger.Log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	gdm, err := data.LoadAllStaticGameData(data.AssetPaths{
		AttacksCSV: *attacksPath,
		WeaponsCSV: *weaponsPath,
	})
	if err != nil {
		logger.Log.Fatalf("静的ゲームデータの読み込みに失敗しました: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.WithField("seed", *seed).Info("乱数シードを設定しました")

	game, err := NewGame(config, gdm, rand.New(rand.NewSource(*seed)))
	if err != nil {
		logger.Log.Fatalf("戦闘の初期化に失敗しました: %v", err)
	}

	ebiten.SetWindowSize(config.UI.Screen.Width*2, config.UI.Screen.Height*2)
	ebiten.SetWindowTitle("Bramble Wars")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		logger.Log.Fatal(err)
	}
}
