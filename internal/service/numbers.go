package service

import "math/rand/v2"

// Invoice and report numbers are display labels only; they are not unique.
const (
	invoiceNumberMin = 10_000_000
	invoiceNumberMax = 99_999_999
	reportNumberMin  = 100_000
	reportNumberMax  = 999_999
)

func newInvoiceNumber() int {
	return invoiceNumberMin + rand.IntN(invoiceNumberMax-invoiceNumberMin+1)
}

func newReportNumber() int {
	return reportNumberMin + rand.IntN(reportNumberMax-reportNumberMin+1)
}
