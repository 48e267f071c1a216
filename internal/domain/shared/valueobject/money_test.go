package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(250), USD)

		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(250)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(250), Currency(""))
		assert.Error(t, err)
	})

	t.Run("parses from string", func(t *testing.T) {
		m, err := NewMoneyFromString("199.99", USD)

		require.NoError(t, err)
		assert.Equal(t, "199.99 USD", m.String())

		_, err = NewMoneyFromString("abc", USD)
		assert.Error(t, err)
	})
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, Zero(USD).IsZero())
	assert.True(t, NewMoneyUSDFromFloat(10).IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(-5)).IsNegative())
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		sum, err := NewMoneyUSDFromFloat(100).Add(NewMoneyUSDFromFloat(50.5))

		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(150.5)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		eur, err := NewMoneyFromFloat(100, EUR)
		require.NoError(t, err)

		_, err = NewMoneyUSDFromFloat(100).Add(eur)
		assert.Error(t, err)
	})
}

func TestMoney_MultiplyByInt(t *testing.T) {
	total := NewMoneyUSDFromFloat(189.50).MultiplyByInt(4)
	assert.True(t, total.Amount().Equal(decimal.NewFromFloat(758.0)))
	assert.Equal(t, USD, total.Currency())
}

func TestMoney_Comparisons(t *testing.T) {
	budget := NewMoneyUSDFromFloat(300)
	rate := NewMoneyUSDFromFloat(189.50)

	within, err := rate.LessThanOrEqual(budget)
	require.NoError(t, err)
	assert.True(t, within)

	over, err := rate.GreaterThan(budget)
	require.NoError(t, err)
	assert.False(t, over)

	eur, err := NewMoneyFromFloat(300, EUR)
	require.NoError(t, err)
	_, err = rate.LessThanOrEqual(eur)
	assert.Error(t, err)

	assert.True(t, rate.Equals(NewMoneyUSDFromFloat(189.5)))
	assert.False(t, rate.Equals(budget))
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshals amount and currency", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyUSDFromFloat(189.5))

		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"189.5","currency":"USD"}`, string(data))
	})

	t.Run("unmarshals with default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"250"}`), &m))

		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(250)))
	})

	t.Run("rejects bad amount", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc","currency":"USD"}`), &m))
	})
}

func TestMoney_SQL(t *testing.T) {
	m := NewMoneyUSDFromFloat(189.5)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "189.5", v)

	var scanned Money
	require.NoError(t, scanned.Scan("189.5"))
	assert.True(t, scanned.Equals(m))

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(42))
}
