package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Currency
// ---------------------------------------------------------------------------

func TestNewCurrency_Valid(t *testing.T) {
	tests := []string{"USD", "EUR", "GBP", "INR", "AED"}
	for _, code := range tests {
		c, err := NewCurrency(code)
		if err != nil {
			t.Errorf("NewCurrency(%q) unexpected error: %v", code, err)
		}
		if c.Code() != code {
			t.Errorf("NewCurrency(%q).Code() = %q, want %q", code, c.Code(), code)
		}
	}
}

func TestNewCurrency_Invalid(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"lowercase", "usd"},
		{"too short", "US"},
		{"too long", "USDD"},
		{"digits", "US1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCurrency(tt.code); err == nil {
				t.Errorf("NewCurrency(%q) expected error, got nil", tt.code)
			}
		})
	}
}

func TestParseCurrency_Normalizes(t *testing.T) {
	c, err := ParseCurrency("  eur ")
	if err != nil {
		t.Fatalf("ParseCurrency unexpected error: %v", err)
	}
	if c.Code() != "EUR" {
		t.Errorf("ParseCurrency code = %q, want EUR", c.Code())
	}
}

func TestMustCurrency_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCurrency(\"bad\") did not panic")
		}
	}()
	MustCurrency("bad")
}

// ---------------------------------------------------------------------------
// Money
// ---------------------------------------------------------------------------

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9500.50", "9500.50"},
		{"  1000 ", "1000"},
		{"1,000,000.00", "1000000"},
		{"-2,500", "-2500"},
		{"0.001", "0.001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	if _, err := ParseAmount("   "); !errors.Is(err, ErrEmptyAmount) {
		t.Errorf("blank amount error = %v, want ErrEmptyAmount", err)
	}
	for _, in := range []string{"ten", "1,00", "10,000,0", "1.000,50"} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) expected error", in)
		}
	}
}

func TestConvert(t *testing.T) {
	eur := MustCurrency("EUR")
	m := New(decimal.NewFromInt(1000), eur)

	got := m.Convert(decimal.RequireFromString("1.1"), USD)

	want := New(decimal.NewFromInt(1100), USD)
	if !got.Equal(want) {
		t.Errorf("Convert = %s, want %s", got, want)
	}
	if m.Currency() != eur {
		t.Error("Convert mutated the receiver")
	}
}

func TestConvertRoundsToCents(t *testing.T) {
	jpy := MustCurrency("JPY")
	m := New(decimal.NewFromInt(1_500_000), jpy)

	got := m.Convert(decimal.RequireFromString("0.006666666667"), USD)

	if !got.Amount().Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Convert = %s, want 10000.00 USD", got)
	}
}

func TestRoundCents_HalfToEven(t *testing.T) {
	tests := map[string]string{
		"9000.125": "9000.12",
		"9000.135": "9000.14",
		"9000.5":   "9000.5",
	}
	for in, want := range tests {
		got := New(decimal.RequireFromString(in), USD).RoundCents().Amount()
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("RoundCents(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestString(t *testing.T) {
	m := New(decimal.NewFromInt(10000), USD)
	if m.String() != "10000.00 USD" {
		t.Errorf("String() = %q", m.String())
	}
}
