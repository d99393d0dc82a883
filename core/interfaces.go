package core

// Roller は命中・クリティカル判定に使う乱数源です。*rand.Rand がそのまま満たします。
// テストでは固定値を返す実装を渡します。
type Roller interface {
	Float64() float64
	Intn(n int) int
}
