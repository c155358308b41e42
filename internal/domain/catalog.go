package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in minor units (cents). Stored as BIGINT.
type Money int64

// MoneyFromFloat rounds a decimal amount to cents.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) Float64() float64 { return float64(m) / 100 }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// Amounts beyond this stop being exact in float64 cents.
const maxMoneyAmount = 90_000_000_000_000

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("money: %q is not a finite number", s)
	}
	if math.Abs(f) > maxMoneyAmount {
		return fmt.Errorf("money: %q is out of range", s)
	}
	*m = MoneyFromFloat(f)
	return nil
}

const DefaultOrderStatus = "Pending"

type Category struct {
	ID       int64
	Name     string
	IsActive bool
}

type Customer struct {
	ID     int64
	Name   string
	Email  string
	Mobile string
}

type Product struct {
	ID          int64
	Name        string
	Price       Money
	Description string
}

// Order is the write model; CustomerName is populated on reads only.
type Order struct {
	ID           int64
	OrderNumber  string
	CustomerID   int64
	CustomerName string
	OrderDate    time.Time
	TotalAmount  Money
	Status       string
	Notes        string
}
