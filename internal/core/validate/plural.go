package validate

import (
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter formats occurrence/entry-count diagnostics with the right
// singular/plural noun (spec.md's "expecting array with length ..., got N"
// and "expected ... matching typed key entries, got N" messages), using the
// teacher's golang.org/x/text dependency rather than a hand-rolled "if n ==
// 1" check.
var (
	countPrinterOnce sync.Once
	countPrinterVal  *message.Printer
)

func countPrinter() *message.Printer {
	countPrinterOnce.Do(func() {
		message.Set(language.English, "%d element(s)", plural.Selectf(1, "%d",
			plural.One, "%d element",
			plural.Other, "%d elements",
		))
		message.Set(language.English, "%d entry/entries", plural.Selectf(1, "%d",
			plural.One, "%d entry",
			plural.Other, "%d entries",
		))
		countPrinterVal = message.NewPrinter(language.English)
	})
	return countPrinterVal
}

func elementCountText(n int) string {
	return countPrinter().Sprintf("%d element(s)", n)
}

func entryCountText(n int) string {
	return countPrinter().Sprintf("%d entry/entries", n)
}
