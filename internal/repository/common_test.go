package repository

import (
	"math/big"
	"strings"
	"testing"
)

func TestSaveTokenPriceNeverReplaces(t *testing.T) {
	t.Parallel()

	if !strings.Contains(saveTokenPriceSQL, "DO NOTHING") {
		t.Error("stored daily closes must survive conflicting inserts")
	}
	if strings.Contains(saveTokenPriceSQL, "DO UPDATE") {
		t.Error("conflict clause must not overwrite price_usd")
	}
}

func TestBigIntNumeric(t *testing.T) {
	t.Parallel()

	if bigIntNumeric(nil) != nil {
		t.Error("nil big.Int must map to SQL NULL")
	}
	if got := bigIntNumeric(big.NewInt(42)); got != "42" {
		t.Errorf("bigIntNumeric(42) = %v", got)
	}
}
