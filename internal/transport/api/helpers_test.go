package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorToMinor(t *testing.T) {
	cases := []struct {
		name    string
		amount  decimal.Decimal
		want    int64
		wantErr bool
	}{
		{name: "whole", amount: decimal.NewFromInt(3000), want: 300000},
		{name: "two decimals", amount: decimal.RequireFromString("10.05"), want: 1005},
		{name: "zero", amount: decimal.Zero, want: 0},
		{name: "sub minor fraction", amount: decimal.RequireFromString("10.001"), wantErr: true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := majorToMinor(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinorToMajor(t *testing.T) {
	assert.InDelta(t, 3000.0, minorToMajor(300000), 0.0001)
	assert.InDelta(t, 10.05, minorToMajor(1005), 0.0001)
}

func TestPhonePattern(t *testing.T) {
	valid := []string{"+79990000001", "79990000001", "+911234567890"}
	invalid := []string{"", "not-a-phone", "+7999", "+7 999 000 00 01", "123456789012345678"}

	for _, phone := range valid {
		assert.True(t, phonePattern.MatchString(phone), phone)
	}
	for _, phone := range invalid {
		assert.False(t, phonePattern.MatchString(phone), phone)
	}
}
