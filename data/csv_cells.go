package data

import (
	"strconv"
	"strings"
)

// CSV の1セルを読むための小さな変換群です。空セルや壊れた値は既定値として扱い、行全体は捨てません。

func cellInt(cell string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return fallback
	}
	return n
}

func cellFloat(cell string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return fallback
	}
	return f
}

// cellBool は true/1/t などを真として読みます。空セルは偽です。
func cellBool(cell string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(cell))
	return b
}

// cellList は "slash|ember" のように | で区切られたIDの並びを読みます。
func cellList(cell string) []string {
	var ids []string
	for _, id := range strings.Split(cell, "|") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
