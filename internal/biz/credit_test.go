package biz

import (
	"math/rand"
	"testing"
	"time"

	"statement-service/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credit(code, creditType string, rest int64, expire time.Time) *CreditItem {
	return &CreditItem{
		CreditCode: code,
		Type:       creditType,
		Amount:     rest,
		RestAmount: rest,
		ExpireDate: expire,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreditLess(t *testing.T) {
	t.Run("earlier expiry first", func(t *testing.T) {
		a := credit("c-1", constants.CreditTypePaid, 100, date(2026, 3, 1))
		b := credit("c-2", constants.CreditTypePromotional, 100, date(2026, 6, 1))
		assert.True(t, CreditLess(a, b))
		assert.False(t, CreditLess(b, a))
	})

	t.Run("same expiry orders by type", func(t *testing.T) {
		expire := date(2026, 3, 1)
		promo := credit("c-1", constants.CreditTypePromotional, 100, expire)
		free := credit("c-2", constants.CreditTypeFree, 100, expire)
		paid := credit("c-3", constants.CreditTypePaid, 100, expire)
		assert.True(t, CreditLess(promo, free))
		assert.True(t, CreditLess(free, paid))
		assert.True(t, CreditLess(promo, paid))
	})

	t.Run("same expiry and type orders by code", func(t *testing.T) {
		expire := date(2026, 3, 1)
		a := credit("c-a", constants.CreditTypePaid, 100, expire)
		b := credit("c-b", constants.CreditTypePaid, 100, expire)
		assert.True(t, CreditLess(a, b))
		assert.False(t, CreditLess(b, a))
	})
}

func TestConsumeCredits(t *testing.T) {
	targetDate := date(2026, 2, 1)

	t.Run("single credit partial consumption", func(t *testing.T) {
		credits := []*CreditItem{credit("c-1", constants.CreditTypePaid, 500, date(2026, 6, 1))}
		consumptions, consumed, remaining := consumeCredits(credits, targetDate, 300)
		require.Len(t, consumptions, 1)
		assert.Equal(t, int64(300), consumptions[0].Amount)
		assert.Equal(t, int64(300), consumed)
		assert.Equal(t, int64(0), remaining)
	})

	t.Run("consumption does not exceed payable", func(t *testing.T) {
		credits := []*CreditItem{
			credit("c-1", constants.CreditTypePaid, 500, date(2026, 6, 1)),
			credit("c-2", constants.CreditTypePaid, 500, date(2026, 7, 1)),
		}
		consumptions, consumed, remaining := consumeCredits(credits, targetDate, 600)
		require.Len(t, consumptions, 2)
		assert.Equal(t, int64(500), consumptions[0].Amount)
		assert.Equal(t, int64(100), consumptions[1].Amount)
		assert.Equal(t, int64(600), consumed)
		assert.Equal(t, int64(0), remaining)
	})

	t.Run("earlier expiry consumed before better type", func(t *testing.T) {
		credits := []*CreditItem{
			credit("promo", constants.CreditTypePromotional, 400, date(2026, 9, 1)),
			credit("paid", constants.CreditTypePaid, 400, date(2026, 3, 1)),
		}
		consumptions, _, _ := consumeCredits(credits, targetDate, 500)
		require.Len(t, consumptions, 2)
		assert.Equal(t, "paid", consumptions[0].CreditCode)
		assert.Equal(t, "promo", consumptions[1].CreditCode)
	})

	t.Run("same expiry consumes promotional before paid", func(t *testing.T) {
		expire := date(2026, 6, 1)
		credits := []*CreditItem{
			credit("paid", constants.CreditTypePaid, 400, expire),
			credit("promo", constants.CreditTypePromotional, 400, expire),
		}
		consumptions, _, _ := consumeCredits(credits, targetDate, 500)
		require.Len(t, consumptions, 2)
		assert.Equal(t, "promo", consumptions[0].CreditCode)
		assert.Equal(t, "paid", consumptions[1].CreditCode)
	})

	t.Run("expired credit skipped, usable on expire date", func(t *testing.T) {
		credits := []*CreditItem{
			credit("expired", constants.CreditTypePaid, 400, date(2026, 1, 31)),
			credit("today", constants.CreditTypePaid, 400, targetDate),
		}
		consumptions, consumed, _ := consumeCredits(credits, targetDate, 500)
		require.Len(t, consumptions, 1)
		assert.Equal(t, "today", consumptions[0].CreditCode)
		assert.Equal(t, int64(400), consumed)
	})

	t.Run("exhausted credit skipped", func(t *testing.T) {
		credits := []*CreditItem{
			{CreditCode: "empty", Type: constants.CreditTypePaid, Amount: 100, RestAmount: 0, ExpireDate: date(2026, 6, 1)},
		}
		consumptions, consumed, remaining := consumeCredits(credits, targetDate, 500)
		assert.Empty(t, consumptions)
		assert.Equal(t, int64(0), consumed)
		assert.Equal(t, int64(500), remaining)
	})

	t.Run("zero payable consumes nothing", func(t *testing.T) {
		credits := []*CreditItem{credit("c-1", constants.CreditTypePaid, 500, date(2026, 6, 1))}
		consumptions, consumed, remaining := consumeCredits(credits, targetDate, 0)
		assert.Empty(t, consumptions)
		assert.Equal(t, int64(0), consumed)
		assert.Equal(t, int64(0), remaining)
	})

	t.Run("input credits are not mutated", func(t *testing.T) {
		credits := []*CreditItem{
			credit("c-1", constants.CreditTypePaid, 500, date(2026, 6, 1)),
			credit("c-2", constants.CreditTypeFree, 300, date(2026, 5, 1)),
		}
		_, consumed, _ := consumeCredits(credits, targetDate, 700)
		require.Equal(t, int64(700), consumed)
		assert.Equal(t, int64(500), credits[0].RestAmount)
		assert.Equal(t, int64(300), credits[1].RestAmount)
	})

	t.Run("consumption order independent of input order", func(t *testing.T) {
		base := []*CreditItem{
			credit("c-1", constants.CreditTypePaid, 100, date(2026, 6, 1)),
			credit("c-2", constants.CreditTypePromotional, 100, date(2026, 6, 1)),
			credit("c-3", constants.CreditTypeFree, 100, date(2026, 4, 1)),
			credit("c-4", constants.CreditTypePaid, 100, date(2026, 3, 1)),
		}
		wantOrder := []string{"c-4", "c-3", "c-2", "c-1"}

		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 10; i++ {
			shuffled := make([]*CreditItem, len(base))
			copy(shuffled, base)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})

			consumptions, consumed, remaining := consumeCredits(shuffled, targetDate, 400)
			require.Len(t, consumptions, 4)
			for j, c := range consumptions {
				assert.Equal(t, wantOrder[j], c.CreditCode)
			}
			assert.Equal(t, int64(400), consumed)
			assert.Equal(t, int64(0), remaining)
		}
	})
}
