package handler

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Success messages returned to the client
const (
	MsgStylePurchased  = "Style purchased"
	MsgStyleEquipped   = "Style equipped"
	MsgStyleUnlocked   = "Style unlocked"
	MsgStyleUpgraded   = "Style upgraded"
	MsgLimitDeleted    = "Limit deleted"
	MsgScheduleDeleted = "Schedule deleted"
	MsgUsageRecorded   = "Usage recorded"
)

// printer renders user-facing numbers with thousands separators so large
// stardust balances stay readable in the client.
var printer = message.NewPrinter(language.English)

// FormatStardust renders an amount like "1,250 stardust".
func FormatStardust(amount int) string {
	return printer.Sprintf("%d stardust", amount)
}

// completionMessage summarizes a settled session for the client toast.
func completionMessage(total int, doubled bool) string {
	if doubled {
		return printer.Sprintf("Session complete! Ante doubled your reward to %d stardust", total)
	}
	return printer.Sprintf("Session complete! You earned %d stardust", total)
}
