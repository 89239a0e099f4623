package service

import (
	"slices"

	"cmcs/internal/models"

	"github.com/shopspring/decimal"
)

// Summarize computes the report statistics over approved claims. Every
// figure is rounded half to even at two places. An empty slice yields
// NoApprovedClaims with every numeric field zero.
func Summarize(approved []models.Claim) models.ReportStatistics {
	if len(approved) == 0 {
		return models.ReportStatistics{NoApprovedClaims: true}
	}

	hours := make([]decimal.Decimal, len(approved))
	amounts := make([]decimal.Decimal, len(approved))
	rates := make([]decimal.Decimal, len(approved))
	for i, c := range approved {
		hours[i] = c.HoursWorked
		amounts[i] = c.FinalAmount
		rates[i] = c.HourlyRate
	}

	return models.ReportStatistics{
		ApprovedCount:     len(approved),
		SummedHours:       decimal.Sum(decimal.Zero, hours...).RoundBank(2),
		SummedTotalAmount: decimal.Sum(decimal.Zero, amounts...).RoundBank(2),
		Hours:             aggregate(hours),
		TotalAmount:       aggregate(amounts),
		HourlyRate:        aggregate(rates),
	}
}

func aggregate(values []decimal.Decimal) models.Aggregate {
	if len(values) == 0 {
		return models.Aggregate{}
	}
	return models.Aggregate{
		Average: decimal.Avg(values[0], values[1:]...).RoundBank(2),
		Highest: decimal.Max(values[0], values[1:]...).RoundBank(2),
		Lowest:  decimal.Min(values[0], values[1:]...).RoundBank(2),
		Median:  Median(values).RoundBank(2),
	}
}

// Median returns the middle value of values, or the mean of the two middle
// values for an even count. Zero for an empty slice.
func Median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := slices.Clone(values)
	slices.SortFunc(sorted, func(a, b decimal.Decimal) int { return a.Cmp(b) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}
