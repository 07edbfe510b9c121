package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewTicketNumber(t *testing.T) {
	ticket := NewTicketNumber()

	if !strings.HasPrefix(ticket, "TKT") {
		t.Errorf("ticket number %q missing TKT prefix", ticket)
	}

	if len(ticket) != 11 {
		t.Errorf("ticket number length = %d, want 11", len(ticket))
	}

	if ticket != strings.ToUpper(ticket) {
		t.Errorf("ticket number %q is not uppercase", ticket)
	}

	if NewTicketNumber() == ticket {
		t.Error("consecutive ticket numbers should differ")
	}
}

func TestNewQRToken(t *testing.T) {
	token := NewQRToken()

	if !strings.HasPrefix(token, "QR_") {
		t.Errorf("QR token %q missing QR_ prefix", token)
	}

	if NewQRToken() == token {
		t.Error("consecutive QR tokens should differ")
	}
}

func TestNewFlatRateRefundPolicy(t *testing.T) {
	tests := []struct {
		name    string
		rate    decimal.Decimal
		wantErr bool
	}{
		{"zero rate is allowed", decimal.Zero, false},
		{"ninety percent is allowed", decimal.NewFromFloat(0.9), false},
		{"full refund is allowed", decimal.NewFromInt(1), false},
		{"negative rate is rejected", decimal.NewFromFloat(-0.1), true},
		{"rate above one is rejected", decimal.NewFromFloat(1.1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFlatRateRefundPolicy(tt.rate)

			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFlatRateRefundAmount(t *testing.T) {
	policy, err := NewFlatRateRefundPolicy(decimal.NewFromFloat(0.9))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		total decimal.Decimal
		want  string
	}{
		{"round total", decimal.NewFromInt(300), "270"},
		{"mixed seat classes", decimal.NewFromInt(450), "405"},
		{"rounding to two decimals", decimal.NewFromFloat(199.99), "179.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &Booking{TotalAmount: tt.total}

			got := policy.RefundAmount(booking, time.Now())
			if got.String() != tt.want {
				t.Errorf("RefundAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}
