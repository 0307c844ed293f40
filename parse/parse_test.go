package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTrade(t *testing.T) {
	t.Parallel()

	d, err := Parse("Widget,0,1,5,10,无")
	assert.NoError(t, err)

	trade, ok := d.(*TradeDraft)
	assert.True(t, ok)
	assert.Equal(t, "Widget", trade.Name)
	assert.Equal(t, KindSpot, trade.Kind)
	assert.Equal(t, DirectionBuy, trade.Direction)
	assert.Equal(t, 5.0, trade.Quantity)
	assert.Equal(t, 10.0, trade.Price)
	assert.Equal(t, "无", trade.Link)
}

func TestParseTradeContractSell(t *testing.T) {
	t.Parallel()

	d, err := Parse("BTC,1,0,0.5,40000,https://example.com")
	assert.NoError(t, err)

	trade, ok := d.(*TradeDraft)
	assert.True(t, ok)
	assert.Equal(t, KindContract, trade.Kind)
	assert.Equal(t, DirectionSell, trade.Direction)
	assert.Equal(t, 0.5, trade.Quantity)
	assert.Equal(t, 40000.0, trade.Price)
	assert.Equal(t, "https://example.com", trade.Link)
}

func TestParseSeparatorEquivalence(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"A,1,1,2,3,l",
		"A，1，1，2，3，l",
		"A/1/1/2/3/l",
		"A 1 1 2 3 l",
	}

	want, err := Parse(inputs[0])
	assert.NoError(t, err)

	for _, in := range inputs[1:] {
		got, err := Parse(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseMixedSeparatorsAndEmptyFields(t *testing.T) {
	t.Parallel()

	d, err := Parse("  A, 1 / 1 ，2  3,, l ")
	assert.NoError(t, err)

	trade, ok := d.(*TradeDraft)
	assert.True(t, ok)
	assert.Equal(t, "A", trade.Name)
	assert.Equal(t, 2.0, trade.Quantity)
	assert.Equal(t, 3.0, trade.Price)
	assert.Equal(t, "l", trade.Link)
}

func TestParseNote(t *testing.T) {
	t.Parallel()

	d, err := Parse("复盘,今天大盘走弱,备注")
	assert.NoError(t, err)

	note, ok := d.(*NoteDraft)
	assert.True(t, ok)
	assert.Equal(t, "复盘", note.Name)
	assert.Equal(t, "今天大盘走弱", note.Body)
}

func TestParseRejectsBadFieldCounts(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"",
		"one",
		"one,two",
		"a,b,c,d,e",
		"a,b,c,d,e,f,g,h,i",
	} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestParseRejectsNonNumericFields(t *testing.T) {
	t.Parallel()

	_, err := Parse("Widget,x,1,5,10,无")
	assert.Error(t, err)

	_, err = Parse("Widget,0,1,five,10,无")
	assert.Error(t, err)

	_, err = Parse("Widget,0,1,5,ten,无")
	assert.Error(t, err)

	// 0/1 flags outside their range are format errors too.
	_, err = Parse("Widget,2,1,5,10,无")
	assert.Error(t, err)
}

func TestTradePromptMentionsFields(t *testing.T) {
	t.Parallel()

	d, err := Parse("Widget,0,1,5,10,无")
	assert.NoError(t, err)

	prompt := d.Prompt()
	assert.Contains(t, prompt, "Widget")
	assert.Contains(t, prompt, "现货")
	assert.Contains(t, prompt, "买入")
	assert.Contains(t, prompt, "5.00")
	assert.Contains(t, prompt, "10.00")
	assert.Contains(t, prompt, "确认")
}

func TestFieldsDropsEmpties(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, Fields(" a ,, b "))
	assert.Empty(t, Fields("  ,，/  "))
}
