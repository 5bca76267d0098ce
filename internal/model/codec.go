package model

import (
	"strconv"
	"time"

	"github.com/jhoicas/libroteca-api/internal/ledger"
)

// Helpers de codec compartidos por los descriptores. Los valores viajan como
// string en el cable; los campos ausentes o malformados degradan al valor
// cero para tolerar schemas remotos parcialmente definidos.

func getString(rec ledger.Record, key string) string {
	v, _ := rec.Get(key)
	return v
}

func getInt(rec ledger.Record, key string) int {
	v, ok := rec.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func getFloat(rec ledger.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func getTime(rec ledger.Record, key string) time.Time {
	v, ok := rec.Get(key)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
