package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUsername(t *testing.T) {
	tests := []struct {
		owner string
		want  string
	}{
		{owner: "Jonas Schmedtmann", want: "js"},
		{owner: "Steven Thomas Williams", want: "stw"},
		{owner: "Umar Ibn", want: "ui"},
		{owner: "Asilbek  Saidov", want: "as"},
		{owner: "Émile Zola", want: "éz"},
		{owner: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateUsername(tt.owner))
		})
	}
}

func TestGenerateUsernamesAssignsEveryAccount(t *testing.T) {
	accounts := []Account{{Owner: "Jonas Schmedtmann"}, {Owner: "Jessica Smith"}}

	GenerateUsernames(accounts)

	assert.Equal(t, "js", accounts[0].Username)
	assert.Equal(t, "js", accounts[1].Username)
}

func TestNormalizePin(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "1111", want: "1111", ok: true},
		{raw: " 01111 ", want: "1111", ok: true},
		{raw: "1111.0", want: "1111", ok: true},
		{raw: "11.5", ok: false},
		{raw: "abc", ok: false},
		{raw: "", ok: false},
		{raw: "-1", ok: false},
	}

	for _, tt := range tests {
		got, ok := NormalizePin(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestAccountCloneDoesNotShareMovements(t *testing.T) {
	original := Account{Movements: []Movement{{Amount: decimal.NewFromInt(200)}}}

	cp := original.Clone()
	cp.Movements[0].Amount = decimal.NewFromInt(1)
	cp.Movements = append(cp.Movements, Movement{Amount: decimal.NewFromInt(5)})

	assert.Equal(t, "200", original.Movements[0].Amount.String())
	assert.Len(t, original.Movements, 1)
}

func TestAccountFirstName(t *testing.T) {
	assert.Equal(t, "Steven", Account{Owner: "Steven Thomas Williams"}.FirstName())
	assert.Equal(t, "", Account{}.FirstName())
}
