package service

import (
	"testing"

	"cmcs/internal/models"

	"github.com/shopspring/decimal"
)

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestMedian(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{"100", "200", "300"}, "200"},
		{[]string{"100", "200", "300", "400"}, "250"},
		{[]string{"300", "100", "200"}, "200"},
		{[]string{"7.5"}, "7.5"},
		{[]string{"1", "2"}, "1.5"},
		{nil, "0"},
	}
	for _, tt := range tests {
		got := Median(decimals(tt.values...))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Median(%v) = %s, want %s", tt.values, got, tt.want)
		}
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	in := decimals("3", "1", "2")
	Median(in)
	if !in[0].Equal(decimal.NewFromInt(3)) {
		t.Fatal("input slice was sorted in place")
	}
}

func approvedClaim(hours, rate string) models.Claim {
	h, r := decimal.RequireFromString(hours), decimal.RequireFromString(rate)
	return models.Claim{HoursWorked: h, HourlyRate: r, FinalAmount: models.ComputeFinalAmount(h, r), Status: models.ClaimStatusApproved}
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]models.Claim{
		approvedClaim("10", "10"),
		approvedClaim("20", "10"),
		approvedClaim("5", "60"),
	})

	if stats.NoApprovedClaims || stats.ApprovedCount != 3 {
		t.Fatalf("count = %d (empty=%v)", stats.ApprovedCount, stats.NoApprovedClaims)
	}
	check := func(name string, got decimal.Decimal, want string) {
		t.Helper()
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("%s = %s, want %s", name, got, want)
		}
	}
	check("summed hours", stats.SummedHours, "35")
	check("summed total", stats.SummedTotalAmount, "600")
	check("avg hours", stats.Hours.Average, "11.67")
	check("max hours", stats.Hours.Highest, "20")
	check("min hours", stats.Hours.Lowest, "5")
	check("median hours", stats.Hours.Median, "10")
	check("avg amount", stats.TotalAmount.Average, "200")
	check("max amount", stats.TotalAmount.Highest, "300")
	check("min amount", stats.TotalAmount.Lowest, "100")
	check("median amount", stats.TotalAmount.Median, "200")
	check("median rate", stats.HourlyRate.Median, "10")
	check("max rate", stats.HourlyRate.Highest, "60")
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if !stats.NoApprovedClaims {
		t.Fatal("expected NoApprovedClaims")
	}
	if stats.ApprovedCount != 0 || !stats.SummedTotalAmount.IsZero() || !stats.TotalAmount.Median.IsZero() || !stats.Hours.Average.IsZero() {
		t.Fatalf("aggregates must be zero: %+v", stats)
	}
}

func TestSummarizeRoundsEveryFigure(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		want  string
	}{
		{"midpoint down to even", "7.125", "7.12"},
		{"midpoint up to even", "7.135", "7.14"},
		{"below midpoint", "7.124", "7.12"},
		{"above midpoint", "7.126", "7.13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Summarize([]models.Claim{approvedClaim(tt.hours, "2")})
			want := decimal.RequireFromString(tt.want)
			for name, got := range map[string]decimal.Decimal{
				"average": stats.Hours.Average,
				"highest": stats.Hours.Highest,
				"lowest":  stats.Hours.Lowest,
				"median":  stats.Hours.Median,
				"sum":     stats.SummedHours,
			} {
				if !got.Equal(want) {
					t.Errorf("hours %s = %s, want %s", name, got, want)
				}
			}
		})
	}
}

func TestComputeFinalAmountRoundsHalfToEven(t *testing.T) {
	tests := []struct{ hours, rate, want string }{
		{"1.5", "0.35", "0.52"},
		{"1.5", "0.45", "0.68"},
		{"2.5", "420.50", "1051.25"},
		{"10", "50", "500"},
	}
	for _, tt := range tests {
		got := models.ComputeFinalAmount(decimal.RequireFromString(tt.hours), decimal.RequireFromString(tt.rate))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ComputeFinalAmount(%s, %s) = %s, want %s", tt.hours, tt.rate, got, tt.want)
		}
	}
}
