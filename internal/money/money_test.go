package money

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/budgetbot/internal/errs"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100", 10000},
		{"100.50", 10050},
		{"100,50", 10050},
		{"1 000.50", 100050},
		{"1_000", 100000},
		{"1-000", 100000},
		{"0.1", 10},
		{"0.109", 10}, // extra precision truncated
		{"0", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	cases := []string{
		"",
		"10.0.0",
		"10,0.0",
		"abc",
		"10a",
		".",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			var ve *errs.ValidationError
			assert.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
		})
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{100050, "1 000.50"},
		{10050, "100.50"},
		{5, "0.05"},
		{0, "0.00"},
		{123456789, "1 234 567.89"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.in))
	}
}
