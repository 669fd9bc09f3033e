package deploy

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestRequestNormalized(t *testing.T) {
	t.Run("empty treasury falls back to owner", func(t *testing.T) {
		req := testRequest()
		req.CreatorTreasury = common.Address{}

		assert.Equal(t, req.Owner, req.Normalized().CreatorTreasury)
	})

	t.Run("explicit treasury survives", func(t *testing.T) {
		req := testRequest()
		treasury := common.HexToAddress("0x2000000000000000000000000000000000000003")
		req.CreatorTreasury = treasury

		assert.Equal(t, treasury, req.Normalized().CreatorTreasury)
	})
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r Request) Request
		valid  bool
	}{
		{"valid", func(r Request) Request { return r }, true},
		{"missing creator token", func(r Request) Request { r.CreatorToken = common.Address{}; return r }, false},
		{"missing owner", func(r Request) Request { r.Owner = common.Address{}; return r }, false},
		{"missing share name", func(r Request) Request { r.ShareName = ""; return r }, false},
		{"missing share symbol", func(r Request) Request { r.ShareSymbol = ""; return r }, false},
		{"missing chain id", func(r Request) Request { r.ChainID = nil; return r }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(testRequest()).Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
