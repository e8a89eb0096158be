package testutil

import (
	"cloud.google.com/go/civil"
)

// Deterministic identifiers and dates shared by package tests.
var (
	TestAccountID      = "ACC-0001"
	OtherAccountID     = "ACC-0002"
	TestValueDate      = civil.Date{Year: 2024, Month: 3, Day: 15}
	TestTransactionID1 = "TXN_00000000-0000-0000-0000-000000000001"
	TestTransactionID2 = "TXN_00000000-0000-0000-0000-000000000002"
)

// DaysBefore returns the date n days before TestValueDate.
func DaysBefore(n int) civil.Date {
	return TestValueDate.AddDays(-n)
}
